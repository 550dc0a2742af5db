package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"
)

var (
	globalManager            *Manager
	globalManagerMu          sync.Mutex
	globalManagerInitialized uint32
)

// GlobalConfig holds configuration for the standard global pools.
type GlobalConfig struct {
	DefaultPool    *Config
	BackgroundPool *Config
}

// DefaultGlobalConfig returns the default global configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		DefaultPool:    DefaultPoolConfig(),
		BackgroundPool: BackgroundPoolConfig(),
	}
}

// InitGlobal initializes the global pool manager with default configuration.
func InitGlobal() error {
	return InitGlobalWithConfig(nil)
}

// InitGlobalWithConfig initializes the global pool manager. Calling it more
// than once is a no-op.
func InitGlobalWithConfig(config *GlobalConfig) error {
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()

	if atomic.LoadUint32(&globalManagerInitialized) == 1 {
		return nil
	}

	if config == nil {
		config = DefaultGlobalConfig()
	}

	manager := NewManager()

	pools := map[Type]*Config{
		DefaultPool:    config.DefaultPool,
		BackgroundPool: config.BackgroundPool,
	}

	for poolType, poolConfig := range pools {
		if poolConfig == nil {
			continue
		}
		if err := manager.RegisterWithType(poolType, poolConfig); err != nil {
			manager.ReleaseAll()
			return err
		}
	}

	globalManager = manager
	atomic.StoreUint32(&globalManagerInitialized, 1)

	logger.Infow("Global pool manager initialized",
		"pools", manager.List(),
	)

	return nil
}

// GetGlobal returns the global pool manager, initializing it on first use.
func GetGlobal() *Manager {
	if atomic.LoadUint32(&globalManagerInitialized) == 0 {
		if err := InitGlobal(); err != nil {
			logger.Errorw("Failed to auto-initialize global pool manager", "error", err)
			return nil
		}
	}
	return globalManager
}

// CloseGlobal shuts down the global pool manager.
func CloseGlobal() error {
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()

	if atomic.LoadUint32(&globalManagerInitialized) == 0 {
		return nil
	}

	if globalManager != nil {
		globalManager.ReleaseAll()
		globalManager = nil
	}
	atomic.StoreUint32(&globalManagerInitialized, 0)

	logger.Infow("Global pool manager closed")
	return nil
}

// CloseGlobalTimeout shuts down the global pool manager, waiting up to
// timeout for in-flight tasks.
func CloseGlobalTimeout(timeout time.Duration) error {
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()

	if atomic.LoadUint32(&globalManagerInitialized) == 0 {
		return nil
	}

	var err error
	if globalManager != nil {
		err = globalManager.ReleaseAllTimeout(timeout)
		globalManager = nil
	}
	atomic.StoreUint32(&globalManagerInitialized, 0)

	logger.Infow("Global pool manager closed", "timeout", timeout)
	return err
}

// ResetGlobal resets the global pool manager. Test use only.
func ResetGlobal() {
	globalManagerMu.Lock()
	defer globalManagerMu.Unlock()

	if globalManager != nil {
		globalManager.ReleaseAll()
		globalManager = nil
	}
	atomic.StoreUint32(&globalManagerInitialized, 0)
}

// Submit submits a task to the default global pool.
func Submit(task func()) error {
	return SubmitToType(DefaultPool, task)
}

// SubmitTo submits a task to the named global pool.
func SubmitTo(poolName string, task func()) error {
	mgr := GetGlobal()
	if mgr == nil {
		return ErrManagerNotInitialized
	}
	return mgr.Submit(poolName, task)
}

// SubmitToType submits a task to the global pool of the given type.
func SubmitToType(poolType Type, task func()) error {
	return SubmitTo(string(poolType), task)
}

// SubmitWithContext submits a context-aware task to the default global pool.
func SubmitWithContext(ctx context.Context, task func()) error {
	mgr := GetGlobal()
	if mgr == nil {
		return ErrManagerNotInitialized
	}
	return mgr.SubmitWithContext(ctx, string(DefaultPool), task)
}

// Get returns the named global pool.
func Get(name string) (*Pool, error) {
	mgr := GetGlobal()
	if mgr == nil {
		return nil, ErrManagerNotInitialized
	}
	return mgr.Get(name)
}

// GetByType returns the global pool of the given type.
func GetByType(poolType Type) (*Pool, error) {
	return Get(string(poolType))
}

// StatsGlobal returns statistics for all global pools.
func StatsGlobal() map[string]Stats {
	mgr := GetGlobal()
	if mgr == nil {
		return nil
	}
	return mgr.Stats()
}
