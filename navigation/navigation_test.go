package navigation_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-bank-client/navigation"
	"github.com/stretchr/testify/require"
)

func TestRequestNavigator(t *testing.T) {
	t.Run("records into holder", func(t *testing.T) {
		ctx, holder := navigation.WithHolder(context.Background())
		navigation.RequestNavigator{}.Navigate(ctx, navigation.RouteDashboard)
		require.Equal(t, navigation.RouteDashboard, holder.Target())
	})

	t.Run("no holder is a no-op", func(t *testing.T) {
		require.NotPanics(t, func() {
			navigation.RequestNavigator{}.Navigate(context.Background(), navigation.RouteLogin)
		})
	})
}

func TestRecorder(t *testing.T) {
	r := &navigation.Recorder{}
	require.Empty(t, r.Last())

	r.Navigate(context.Background(), "/a")
	r.Navigate(context.Background(), "/b")

	require.Equal(t, []string{"/a", "/b"}, r.Paths())
	require.Equal(t, "/b", r.Last())
}
