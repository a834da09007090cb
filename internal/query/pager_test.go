package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageOf(n, last int) *domain.Page[string] {
	return &domain.Page[string]{
		Data: []string{"item"},
		Meta: domain.PageMeta{CurrentPage: n, LastPage: last},
	}
}

func TestPager_GoTo(t *testing.T) {
	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		return pageOf(page, 3), nil
	})

	view, err := p.GoTo(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, view.Data.Meta.CurrentPage)
	assert.False(t, view.Loading)
	assert.False(t, view.Placeholder)
}

func TestPager_StalePageDiscarded(t *testing.T) {
	page1Release := make(chan struct{})
	page1Started := make(chan struct{})

	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		if page == 1 {
			close(page1Started)
			<-page1Release
		}
		return pageOf(page, 3), nil
	})

	type result struct {
		view PageView[string]
		err  error
	}
	page1 := make(chan result, 1)
	go func() {
		v, err := p.GoTo(context.Background(), 1)
		page1 <- result{v, err}
	}()
	<-page1Started

	view2, err := p.GoTo(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view2.Data.Meta.CurrentPage)

	close(page1Release)
	r := <-page1

	assert.ErrorIs(t, r.err, ErrSuperseded)
	assert.Equal(t, 2, r.view.Page)
	assert.Equal(t, 2, p.View().Page)
	assert.Equal(t, 2, p.View().Data.Meta.CurrentPage)
}

func TestPager_KeepsPreviousDataWhileLoading(t *testing.T) {
	release := make(chan struct{})
	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		if page == 2 {
			<-release
		}
		return pageOf(page, 3), nil
	})
	_, err := p.GoTo(context.Background(), 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.GoTo(context.Background(), 2)
	}()

	require.Eventually(t, func() bool { return p.View().Loading }, time.Second, 5*time.Millisecond)
	view := p.View()
	assert.Equal(t, 2, view.Page)
	assert.True(t, view.Placeholder)
	assert.Equal(t, 1, view.Data.Meta.CurrentPage)

	close(release)
	<-done
	assert.False(t, p.View().Placeholder)
}

func TestPager_ErrorKeepsData(t *testing.T) {
	boom := errors.New("boom")
	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		if page == 2 {
			return nil, boom
		}
		return pageOf(page, 3), nil
	})
	_, _ = p.GoTo(context.Background(), 1)

	view, err := p.GoTo(context.Background(), 2)

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, view.Err, boom)
	assert.Equal(t, 1, view.Data.Meta.CurrentPage)
	assert.False(t, view.Loading)
}

func TestPager_NextPrevBounds(t *testing.T) {
	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		return pageOf(page, 2), nil
	})

	view, _ := p.Prev(context.Background())
	assert.Equal(t, 1, view.Page)

	view, _ = p.Next(context.Background())
	assert.Equal(t, 2, view.Page)

	view, _ = p.Next(context.Background())
	assert.Equal(t, 2, view.Page)
}

func TestPager_Reset(t *testing.T) {
	p := NewPager(func(ctx context.Context, page int) (*domain.Page[string], error) {
		return pageOf(page, 5), nil
	})
	_, _ = p.GoTo(context.Background(), 4)

	p.Reset()

	view := p.View()
	assert.Equal(t, 1, view.Page)
	assert.Nil(t, view.Data)
}
