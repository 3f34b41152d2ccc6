// Package dashboard assembles the render-ready view-model for the admin
// dashboard page.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gitarena/gitarena/internal/admin/format"
	"github.com/gitarena/gitarena/internal/admin/stats"
	"github.com/gitarena/gitarena/internal/admin/telemetry"
	"github.com/gitarena/gitarena/internal/admin/versions"
	"github.com/gitarena/gitarena/internal/metrics"
)

// Unavailable is rendered for a section whose store query failed.
const Unavailable = "n/a"

// Unknown is rendered for a telemetry field that could not be read.
const Unknown = "unknown"

// DefaultSourceTimeout bounds each individual store query during a build.
const DefaultSourceTimeout = 3 * time.Second

// StatsSource provides entity counts and latest-created lookups.
type StatsSource interface {
	Count(ctx context.Context, kind stats.Kind) (int64, error)
	Latest(ctx context.Context, kind stats.Kind) (*stats.Latest, error)
}

// TelemetrySource provides a host metrics snapshot.
type TelemetrySource interface {
	Snapshot(ctx context.Context) telemetry.Snapshot
}

// VersionSource provides the cached component version list.
type VersionSource interface {
	List() []versions.Component
	Get(name string) string
}

// Registry component names. The versions registry in cmd/admin-api registers
// components under these names; the view-model field names mirror what the
// admin templates have always consumed.
const (
	ComponentGitArena = "gitarena"
	ComponentCompiler = "rustc"
	ComponentPostgres = "postgres"
	ComponentLibgit2  = "libgit2"
	ComponentGit2Rs   = "git2-rs"
)

// LatestUser is the most recently registered user.
type LatestUser struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Link     string `json:"link"`
}

// LatestEntity is the most recently created group or repository.
type LatestEntity struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// ViewModel is the complete, render-ready dashboard structure. It is built
// fresh per request and immutable once returned. Counts are decimal strings
// so an unavailable section can carry the "n/a" marker.
type ViewModel struct {
	UsersCount string      `json:"users_count"`
	UsersLabel string      `json:"users_label"`
	UsersLink  string      `json:"users_link"`
	LatestUser *LatestUser `json:"latest_user,omitempty"`

	GroupsCount string        `json:"groups_count"`
	GroupsLabel string        `json:"groups_label"`
	GroupsLink  string        `json:"groups_link"`
	LatestGroup *LatestEntity `json:"latest_group,omitempty"`

	ReposCount         string        `json:"repos_count"`
	ReposLabel         string        `json:"repos_label"`
	ReposLink          string        `json:"repos_link"`
	LatestRepo         *LatestEntity `json:"latest_repo,omitempty"`
	LatestRepoUsername string        `json:"latest_repo_username,omitempty"`

	GitArenaVersion string               `json:"gitarena_version"`
	RustcVersion    string               `json:"rustc_version"`
	PostgresVersion string               `json:"postgres_version"`
	Libgit2Version  string               `json:"libgit2_version"`
	Git2RsVersion   string               `json:"git2_rs_version"`
	Versions        []versions.Component `json:"versions"`

	OS              string `json:"os"`
	OSVersion       string `json:"version"`
	Architecture    string `json:"architecture"`
	Uptime          string `json:"uptime"`
	MemoryAvailable string `json:"memory_available"`
	MemoryTotal     string `json:"memory_total"`
	PID             string `json:"pid"`
}

type Builder struct {
	stats         StatsSource
	telemetry     TelemetrySource
	versions      VersionSource
	sourceTimeout time.Duration
	logger        zerolog.Logger
}

func NewBuilder(statsSrc StatsSource, telemetrySrc TelemetrySource, versionSrc VersionSource, sourceTimeout time.Duration, logger zerolog.Logger) *Builder {
	if sourceTimeout <= 0 {
		sourceTimeout = DefaultSourceTimeout
	}
	return &Builder{
		stats:         statsSrc,
		telemetry:     telemetrySrc,
		versions:      versionSrc,
		sourceTimeout: sourceTimeout,
		logger:        logger,
	}
}

// section collects the per-kind fetch results. Count and latest failures are
// tracked separately so one does not mask the other.
type section struct {
	count     int64
	countErr  error
	latest    *stats.Latest
	latestErr error
}

// Build gathers all dashboard data sources concurrently and returns the
// assembled view-model. It never fails: an unavailable source degrades to
// its placeholder while every other section is populated normally.
func (b *Builder) Build(ctx context.Context) ViewModel {
	start := time.Now()
	defer func() {
		metrics.DashboardBuildDuration.Observe(time.Since(start).Seconds())
	}()

	sections := make([]section, len(stats.Kinds))
	var snap telemetry.Snapshot
	var snapErr error

	// Workers record failures in their section and always return nil, so one
	// slow or broken source never cancels the others.
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range stats.Kinds {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, b.sourceTimeout)
			defer cancel()
			sections[i].count, sections[i].countErr = b.stats.Count(cctx, kind)
			return nil
		})
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, b.sourceTimeout)
			defer cancel()
			sections[i].latest, sections[i].latestErr = b.stats.Latest(cctx, kind)
			return nil
		})
	}

	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, b.sourceTimeout)
		defer cancel()

		// The snapshot runs in its own goroutine and is abandoned on
		// timeout, so a hung host read cannot stall the build even if it
		// ignores the context.
		done := make(chan telemetry.Snapshot, 1)
		go func() {
			done <- b.telemetry.Snapshot(cctx)
		}()

		select {
		case snap = <-done:
		case <-cctx.Done():
			snapErr = cctx.Err()
		}
		return nil
	})

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	for i, kind := range stats.Kinds {
		if err := sections[i].countErr; err != nil {
			b.logger.Warn().Err(err).Str("kind", string(kind)).Msg("entity count unavailable")
			metrics.DashboardSourceFailures.WithLabelValues(string(kind)).Inc()
		}
		if err := sections[i].latestErr; err != nil {
			b.logger.Warn().Err(err).Str("kind", string(kind)).Msg("latest entity unavailable")
			metrics.DashboardSourceFailures.WithLabelValues(string(kind)).Inc()
		}
	}
	if snapErr != nil {
		b.logger.Warn().Err(snapErr).Msg("telemetry snapshot unavailable")
		metrics.DashboardSourceFailures.WithLabelValues("telemetry").Inc()
	}

	vm := ViewModel{
		UsersLink:  "/admin/users",
		GroupsLink: "/admin/groups",
		ReposLink:  "/admin/repos",
	}
	b.fillUsers(&vm, sections[0])
	b.fillGroups(&vm, sections[1])
	b.fillRepos(&vm, sections[2])
	b.fillVersions(&vm)
	b.fillTelemetry(&vm, snap, snapErr == nil)
	return vm
}

func (b *Builder) fillUsers(vm *ViewModel, s section) {
	vm.UsersCount, vm.UsersLabel = countDisplay(s, "user", "users")
	if s.latestErr == nil && s.latest != nil {
		vm.LatestUser = &LatestUser{
			ID:       s.latest.ID,
			Username: s.latest.DisplayName,
			Link:     fmt.Sprintf("/admin/user/%d", s.latest.ID),
		}
	}
}

func (b *Builder) fillGroups(vm *ViewModel, s section) {
	vm.GroupsCount, vm.GroupsLabel = countDisplay(s, "group", "groups")
	if s.latestErr == nil && s.latest != nil {
		vm.LatestGroup = &LatestEntity{
			ID:   s.latest.ID,
			Name: s.latest.DisplayName,
			Link: fmt.Sprintf("/admin/group/%d", s.latest.ID),
		}
	}
}

func (b *Builder) fillRepos(vm *ViewModel, s section) {
	vm.ReposCount, vm.ReposLabel = countDisplay(s, "repository", "repositories")
	if s.latestErr == nil && s.latest != nil {
		vm.LatestRepo = &LatestEntity{
			ID:   s.latest.ID,
			Name: s.latest.DisplayName,
			Link: fmt.Sprintf("/admin/repos/%d", s.latest.ID),
		}
		// Kept as a sibling field rather than folded into LatestRepo; the
		// admin templates reference it standalone.
		vm.LatestRepoUsername = s.latest.OwnerUsername
	}
}

func (b *Builder) fillVersions(vm *ViewModel) {
	vm.GitArenaVersion = b.versions.Get(ComponentGitArena)
	vm.RustcVersion = b.versions.Get(ComponentCompiler)
	vm.PostgresVersion = b.versions.Get(ComponentPostgres)
	vm.Libgit2Version = b.versions.Get(ComponentLibgit2)
	vm.Git2RsVersion = b.versions.Get(ComponentGit2Rs)
	vm.Versions = b.versions.List()
}

func (b *Builder) fillTelemetry(vm *ViewModel, snap telemetry.Snapshot, ok bool) {
	if !ok {
		vm.OS = Unknown
		vm.OSVersion = Unknown
		vm.Architecture = Unknown
		vm.Uptime = Unknown
		vm.MemoryAvailable = Unknown
		vm.MemoryTotal = Unknown
		vm.PID = Unknown
		return
	}

	vm.OS = stringOr(snap.OS, Unknown)
	vm.OSVersion = stringOr(snap.OSVersion, Unknown)
	vm.Architecture = stringOr(snap.Architecture, Unknown)
	vm.Uptime = format.Duration(snap.Uptime)

	if snap.MemoryOK {
		vm.MemoryAvailable = format.FileSize(snap.MemoryAvailable)
		vm.MemoryTotal = format.FileSize(snap.MemoryTotal)
	} else {
		vm.MemoryAvailable = Unknown
		vm.MemoryTotal = Unknown
	}

	if snap.PID > 0 {
		vm.PID = strconv.Itoa(snap.PID)
	} else {
		vm.PID = Unknown
	}
}

// countDisplay renders a section count and its pluralized label. The label
// falls back to the plural form when the count is unavailable.
func countDisplay(s section, singular, plural string) (string, string) {
	if s.countErr != nil {
		return Unavailable, plural
	}
	return strconv.FormatInt(s.count, 10), format.Pluralize(s.count, singular, plural)
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
