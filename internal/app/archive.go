package app

import (
	"context"
	"errors"
	"time"

	"github.com/PresageLabs/PrediBench-sub000/internal/service"
	"github.com/PresageLabs/PrediBench-sub000/internal/storage"
)

// Archive 执行单次榜单抓取并归档到数据库。
func (a *App) Archive(ctx context.Context, opts ArchiveOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot archive")
	}
	if closeStore != nil {
		defer closeStore()
	}

	client := a.newClient()

	var snapshots storage.SnapshotStore = store
	var archive storage.DecisionArchive = store

	svc := service.New(nil, client, client, snapshots, archive, a.newNotifier(), a.Logger)

	at := opts.At
	if at.IsZero() {
		at = time.Now().UTC().Truncate(time.Minute)
	}
	return svc.CaptureSnapshot(ctx, at)
}
