// Package sync mirrors the local lift log to the user's Charm Cloud
// key-value store so a log started on one machine can be picked up on
// another.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/charm/kv"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/lift"
)

const (
	dbName = "liftlog"

	// Throttle window between automatic syncs. `sync --force` ignores it.
	minInterval = 5 * time.Minute

	stampFile = ".last-sync"
)

// Sync pushes local lifts to the cloud store and pulls down lifts that
// exist only remotely. When both sides have a lift with the same ID and
// different content, the copy with the higher recency wins; ties go to the
// local copy.
type Sync struct {
	// Force runs even when the last sync was inside the throttle window.
	Force bool

	// StampDir holds the throttle stamp; usually the store's base path.
	StampDir string

	Service *app.Service
}

func (n *Sync) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not sync, no persistence")
	}

	if !n.Force && !n.due() {
		fmt.Println("synced recently, skipping (use --force to override)")
		return nil
	}

	db, err := kv.OpenWithDefaults(dbName)
	if err != nil {
		return fmt.Errorf("open charm kv: %w", err)
	}
	defer db.Close()

	if err := db.Sync(); err != nil {
		return fmt.Errorf("pull remote state: %w", err)
	}

	local, err := n.Service.Lifts(ctx)
	if err != nil {
		return err
	}
	localByID := make(map[string]lift.Lift, len(local))
	for _, l := range local {
		localByID[l.ID] = l
	}

	pushed, pulled := 0, 0

	for _, l := range local {
		remote, ok, err := remoteLift(db, l.ID)
		if err != nil {
			return err
		}
		if ok {
			switch resolve(l, remote) {
			case keepBoth:
				continue
			case pullRemote:
				if _, err := n.Service.Persistence.Save(remote); err != nil {
					return fmt.Errorf("store remote lift %s: %w", l.ID, err)
				}
				pulled++
				continue
			}
		}
		data, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encode lift %s: %w", l.ID, err)
		}
		if err := db.Set([]byte(l.ID), data); err != nil {
			return fmt.Errorf("push lift %s: %w", l.ID, err)
		}
		pushed++
	}

	keys, err := db.Keys()
	if err != nil {
		return fmt.Errorf("list remote lifts: %w", err)
	}
	for _, key := range keys {
		id := string(key)
		if _, ok := localByID[id]; ok {
			continue
		}
		remote, ok, err := remoteLift(db, id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := n.Service.Persistence.Save(remote); err != nil {
			return fmt.Errorf("store remote lift %s: %w", id, err)
		}
		pulled++
	}

	n.stamp()
	fmt.Printf("synced: %d pushed, %d pulled\n", pushed, pulled)
	return nil
}

func remoteLift(db *kv.KV, id string) (lift.Lift, bool, error) {
	data, err := db.Get([]byte(id))
	if err != nil || len(data) == 0 {
		// Charm kv reports missing keys as errors; treat any read failure
		// as absent and let the push path overwrite.
		return lift.Lift{}, false, nil
	}
	var l lift.Lift
	if err := json.Unmarshal(data, &l); err != nil {
		return lift.Lift{}, false, nil
	}
	if l.ID == "" {
		return lift.Lift{}, false, nil
	}
	return l, true, nil
}

type action int

const (
	keepBoth action = iota
	pushLocal
	pullRemote
)

// resolve decides what to do with a lift present on both sides. Identical
// content is already in sync; otherwise the higher recency wins, local on a
// tie.
func resolve(local, remote lift.Lift) action {
	if equalLifts(local, remote) {
		return keepBoth
	}
	if remote.Recency() > local.Recency() {
		return pullRemote
	}
	return pushLocal
}

func equalLifts(a, b lift.Lift) bool {
	da, err := json.Marshal(lift.NormalizeForSave(a))
	if err != nil {
		return false
	}
	db, err := json.Marshal(lift.NormalizeForSave(b))
	if err != nil {
		return false
	}
	return string(da) == string(db)
}

func (n *Sync) due() bool {
	if n.StampDir == "" {
		return true
	}
	info, err := os.Stat(filepath.Join(n.StampDir, stampFile))
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) >= minInterval
}

func (n *Sync) stamp() {
	if n.StampDir == "" {
		return
	}
	path := filepath.Join(n.StampDir, stampFile)
	if err := os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "sync: write stamp: %v\n", err)
	}
}
