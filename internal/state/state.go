// Package state loads an immutable snapshot of everything the read-side
// computations work from.
package state

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sitelog/intake/internal/announcements"
	"github.com/sitelog/intake/internal/intake"
	"github.com/sitelog/intake/internal/masterdata"
	"github.com/sitelog/intake/internal/settings"
)

// Snapshot is a point-in-time copy of the application data. Callers treat it
// as read-only and load a new one after any mutation.
type Snapshot struct {
	Catalog       masterdata.Catalog
	Entries       []intake.Entry
	Announcements []announcements.Announcement
	Settings      settings.Settings
}

// CatalogSource loads the reference collections.
type CatalogSource interface {
	Catalog(ctx context.Context) (masterdata.Catalog, error)
}

// EntrySource lists delivery entries newest first.
type EntrySource interface {
	List(ctx context.Context) ([]intake.Entry, error)
}

// AnnouncementSource lists announcements.
type AnnouncementSource interface {
	List(ctx context.Context) ([]announcements.Announcement, error)
}

// SettingsSource reads the settings row.
type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Loader builds snapshots by querying every source concurrently.
type Loader struct {
	Catalog       CatalogSource
	Entries       EntrySource
	Announcements AnnouncementSource
	Settings      SettingsSource
}

// Load fetches a complete snapshot or fails as a whole.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat, err := l.Catalog.Catalog(gctx)
		if err != nil {
			return fmt.Errorf("state: catalog: %w", err)
		}
		snap.Catalog = cat
		return nil
	})
	g.Go(func() error {
		entries, err := l.Entries.List(gctx)
		if err != nil {
			return fmt.Errorf("state: entries: %w", err)
		}
		snap.Entries = entries
		return nil
	})
	g.Go(func() error {
		list, err := l.Announcements.List(gctx)
		if err != nil {
			return fmt.Errorf("state: announcements: %w", err)
		}
		snap.Announcements = list
		return nil
	})
	g.Go(func() error {
		s, err := l.Settings.Get(gctx)
		if err != nil {
			return fmt.Errorf("state: settings: %w", err)
		}
		snap.Settings = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
