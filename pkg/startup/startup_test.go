package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDependency struct {
	name      string
	dependsOn []string
	failures  int
	starts    int
	stops     int
	order     *[]string
}

func (d *fakeDependency) GetName() string {
	return d.name
}

func (d *fakeDependency) DependsOn() []string {
	return d.dependsOn
}

func (d *fakeDependency) Start(context.Context) error {
	d.starts++
	if d.order != nil {
		*d.order = append(*d.order, d.name)
	}
	if d.starts <= d.failures {
		return errors.New("not ready yet")
	}
	return nil
}

func (d *fakeDependency) Stop(context.Context) error {
	d.stops++
	return nil
}

func newTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartupStartsDependenciesInOrder(t *testing.T) {
	var order []string
	database := &fakeDependency{name: "database", order: &order}
	consumer := &fakeDependency{name: "consumer", dependsOn: []string{"database"}, order: &order}

	s := NewStartup(newTestLogger(), 3)
	s.AddDependency(consumer)
	s.AddDependency(database)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"database", "consumer"}, order)
	assert.Equal(t, 1, database.starts)
	assert.Equal(t, 1, consumer.starts)
}

func TestStartupRetriesUntilSuccess(t *testing.T) {
	dep := &fakeDependency{name: "database", failures: 2}

	s := NewStartup(newTestLogger(), 5)
	s.AddDependency(dep)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, dep.starts)
}

func TestStartupFailsAfterMaxAttempts(t *testing.T) {
	dep := &fakeDependency{name: "database", failures: 10}

	s := NewStartup(newTestLogger(), 2)
	s.AddDependency(dep)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, dep.starts)
}

func TestStartupStopStopsEveryDependency(t *testing.T) {
	database := &fakeDependency{name: "database"}
	consumer := &fakeDependency{name: "consumer", dependsOn: []string{"database"}}

	s := NewStartup(newTestLogger(), 1)
	s.AddDependency(database)
	s.AddDependency(consumer)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop(context.Background()))
	assert.GreaterOrEqual(t, database.stops, 1)
	assert.GreaterOrEqual(t, consumer.stops, 1)
}

func TestStartupHonorsContextCancellation(t *testing.T) {
	dep := &fakeDependency{name: "database", failures: 10}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStartup(newTestLogger(), 5)
	s.AddDependency(dep)

	err := s.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
