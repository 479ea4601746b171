package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/product-api/pkg/logger"
)

const defaultForcedTimeout = 2 * time.Second

// Func освобождает один ресурс сервиса (пул Postgres, клиент Redis, продюсер Kafka).
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer освобождает зарегистрированные ресурсы в порядке, обратном регистрации.
type Closer struct {
	mu        sync.Mutex
	resources []resource

	once sync.Once
	err  error

	forcedTimeout time.Duration
	log           logger.Logger
}

// ShutdownError описывает неуспешное завершение. Errs содержит ошибки
// отдельных ресурсов в виде "<имя>: <причина>" и доступны через errors.Is/As.
type ShutdownError struct {
	// Interrupted выставляется, если контекст истек до закрытия всех ресурсов.
	Interrupted bool
	// Released число ресурсов, закрытых до истечения контекста.
	Released int
	Total    int
	Errs     []error
}

func (s *ShutdownError) Error() string {
	if s.Interrupted {
		return fmt.Sprintf("shutdown interrupted after %d/%d resources: %v", s.Released, s.Total, errors.Join(s.Errs...))
	}
	return fmt.Sprintf("shutdown finished with %d error(s): %v", len(s.Errs), errors.Join(s.Errs...))
}

func (s *ShutdownError) Unwrap() []error {
	return s.Errs
}

// NewCloser создает Closer. forcedTimeout ограничивает принудительное
// закрытие оставшихся ресурсов после истечения контекста Close; 0 означает 2s.
func NewCloser(log logger.Logger, forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		log:           log,
	}
}

// Add регистрирует ресурс под именем name.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы по одному (LIFO). Если ctx истекает, ресурс в работе
// дожидается своего завершения, а оставшиеся закрываются параллельно за forcedTimeout.
// Каждый ресурс закрывается не более одного раза; повторные вызовы возвращают
// результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		c.err = c.shutdown(ctx, resources)
	})

	return c.err
}

func (c *Closer) shutdown(ctx context.Context, resources []resource) error {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		start := time.Now()
		done := make(chan error, 1)

		go func() {
			done <- r.close(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
				continue
			}
			c.log.Debugf("Closed %s in %s", r.name, time.Since(start))
		case <-ctx.Done():
			c.log.Warnf("Shutdown deadline reached while closing %s, forcing %d remaining", r.name, i)
			errs = append(errs, c.force(r, done, resources[:i])...)

			return &ShutdownError{
				Interrupted: true,
				Released:    len(resources) - 1 - i,
				Total:       len(resources),
				Errs:        errs,
			}
		}
	}

	if len(errs) > 0 {
		return &ShutdownError{Released: len(resources), Total: len(resources), Errs: errs}
	}
	return nil
}

// force ждет уже запущенное закрытие pending и параллельно закрывает rest.
func (c *Closer) force(pending resource, done <-chan error, rest []resource) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	collect := func(name string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case err := <-done:
			collect(pending.name, err)
		case <-ctx.Done():
			collect(pending.name, ctx.Err())
		}
	}()

	for _, r := range rest {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collect(r.name, r.close(ctx))
		}()
	}

	wg.Wait()
	return errs
}
