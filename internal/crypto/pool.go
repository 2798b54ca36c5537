package crypto

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool ограничивает количество одновременных вычислений argon2id.
// Каждое вычисление занимает ~64MB и ядро CPU, поэтому поток логинов
// не должен вытеснять остальные запросы.
type Pool struct {
	hasher *Hasher
	sem    *semaphore.Weighted
}

// NewPool создает Pool с workers параллельными слотами.
// workers <= 0 означает runtime.NumCPU().
func NewPool(hasher *Hasher, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		hasher: hasher,
		sem:    semaphore.NewWeighted(int64(workers)),
	}
}

// Hash хеширует пароль, дожидаясь свободного слота или отмены ctx
func (p *Pool) Hash(ctx context.Context, secret string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash worker unavailable: %w", err)
	}
	defer p.sem.Release(1)

	return p.hasher.Hash(secret)
}

// Verify проверяет пароль, дожидаясь свободного слота или отмены ctx.
// Ошибка возвращается только при отмене ctx; несовпадение пароля это false.
func (p *Pool) Verify(ctx context.Context, secret, hashed string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("hash worker unavailable: %w", err)
	}
	defer p.sem.Release(1)

	return p.hasher.Verify(secret, hashed), nil
}

// NeedsRehash does not touch the worker budget: it only parses the hash header.
func (p *Pool) NeedsRehash(hashed string) bool {
	return p.hasher.NeedsRehash(hashed)
}
