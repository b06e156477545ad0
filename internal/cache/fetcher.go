package cache

import (
	"context"

	"go.uber.org/zap"

	"worktrack-cli/internal/model"
)

type childFetcher interface {
	Children(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error)
}

// FallbackFetcher decorates the API fetcher with the local cache: successful
// fetches are written through; failures fall back to the last cached answer;
// offline mode skips the network entirely. It satisfies cascade.Fetcher.
type FallbackFetcher struct {
	API     childFetcher
	Cache   *Cache
	Offline bool
	Log     *zap.Logger
}

func (f *FallbackFetcher) Children(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	if f.Offline {
		ents, err := f.Cache.Get(ctx, level, parentID)
		if err != nil {
			return nil, err
		}
		return ents, nil
	}

	ents, err := f.API.Children(ctx, level, parentID)
	if err == nil {
		if f.Cache != nil {
			if perr := f.Cache.Put(ctx, level, parentID, ents); perr != nil {
				log.Warn("cache write failed", zap.String("level", string(level)), zap.Error(perr))
			}
		}
		return ents, nil
	}

	if f.Cache != nil {
		if cached, cerr := f.Cache.Get(ctx, level, parentID); cerr == nil {
			log.Info("serving cached child list after fetch failure",
				zap.String("level", string(level)),
				zap.String("parentId", parentID),
				zap.Error(err))
			return cached, nil
		}
	}
	return nil, err
}
