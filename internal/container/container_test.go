package container

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/factoryfeed/internal/config"
	"github.com/zfogg/factoryfeed/internal/handlers"
	"github.com/zfogg/factoryfeed/internal/timeago"
	"gorm.io/gorm"
)

func TestValidateReportsMissing(t *testing.T) {
	err := New(&config.Config{}).Validate()
	require.Error(t, err)

	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, []string{"database", "formatter", "handlers"}, initErr.MissingDeps)
	assert.Equal(t, "container is missing dependencies: database, formatter, handlers", err.Error())
}

func TestValidateComplete(t *testing.T) {
	f := timeago.New(timeago.Russian)
	c := New(&config.Config{}).
		SetDB(&gorm.DB{}).
		SetFormatter(f).
		SetHandlers(handlers.NewHandlers(nil, f))

	assert.NoError(t, c.Validate())
	assert.Same(t, f, c.Formatter())
}

func TestCleanupRunsInReverseAndContinues(t *testing.T) {
	var order []int
	c := New(&config.Config{})
	c.OnCleanup(func(context.Context) error { order = append(order, 1); return nil })
	c.OnCleanup(func(context.Context) error { order = append(order, 2); return errors.New("fail") })
	c.OnCleanup(func(context.Context) error { order = append(order, 3); return nil })

	c.Cleanup(context.Background())
	assert.Equal(t, []int{3, 2, 1}, order)

	// A second call has nothing left to run
	c.Cleanup(context.Background())
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestInitializationErrorWithoutDeps(t *testing.T) {
	assert.Equal(t, "boom", NewInitializationError("boom", nil).Error())
}
