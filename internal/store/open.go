package store

import (
	"github.com/zhubert/ecehelper/internal/config"
	perrors "github.com/zhubert/ecehelper/internal/errors"
)

// Open builds the Store selected by cfg.
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.GetStore() {
	case config.StoreRedis:
		addr, db := cfg.GetRedis()
		kv, err := NewRedisKV(addr, db)
		if err != nil {
			return nil, perrors.StoreLoadFailed(addr, err)
		}
		return New(kv), nil
	case config.StoreMemory:
		return New(NewMemoryKV()), nil
	default:
		return New(NewFileKV(cfg.GetDataDir())), nil
	}
}
