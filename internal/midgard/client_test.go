package midgard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	i, err := parseNumber[int64]("1647913096")
	require.NoError(t, err)
	assert.Equal(t, int64(1647913096), i)

	f, err := parseNumber[float64]("0.00123")
	require.NoError(t, err)
	assert.InDelta(t, 0.00123, f, 1e-9)

	_, err = parseNumber[int64]("not-a-number")
	assert.Error(t, err)
}

func TestFieldParserKeepsFirstError(t *testing.T) {
	var p fieldParser
	p.i64("good", "42")
	p.f64("bad", "oops")
	p.i64("alsoBad", "nope")

	require.Error(t, p.err)
	assert.Contains(t, p.err.Error(), "bad")
	assert.NotContains(t, p.err.Error(), "alsoBad")
}

const depthBody = `{
	"intervals": [
		{
			"assetDepth": "2100000000",
			"assetPrice": "12.5",
			"assetPriceUSD": "65000.25",
			"endTime": "1647916696",
			"liquidityUnits": "900000000",
			"luvi": "0.00123",
			"membersCount": "1500",
			"runeDepth": "26250000000",
			"startTime": "1647913096",
			"synthSupply": "140000000",
			"synthUnits": "30000000",
			"units": "930000000"
		}
	],
	"meta": {"startTime": "1647913096", "endTime": "1647916696"}
}`

func TestClientFetchDepths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/depths/BTC.BTC", r.URL.Path)
		assert.Equal(t, "hour", r.URL.Query().Get("interval"))
		assert.Equal(t, "1647913096", r.URL.Query().Get("from"))
		assert.Equal(t, "400", r.URL.Query().Get("count"))
		w.Write([]byte(depthBody))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	samples, endTime, err := client.FetchDepths(context.Background(), "BTC.BTC", "hour", 1647913096, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(1647916696), endTime)
	require.Len(t, samples, 1)
	assert.Equal(t, "BTC.BTC", samples[0].Pool)
	assert.Equal(t, int64(2100000000), samples[0].AssetDepth)
	assert.InDelta(t, 0.00123, samples[0].Luvi, 1e-9)
	assert.Equal(t, int64(1647913096), samples[0].StartTime)
	assert.Equal(t, int64(1647916696), samples[0].EndTime)
}

func TestClientFetchEarnings(t *testing.T) {
	body := `{
		"intervals": [
			{
				"avgNodeCount": "102.5",
				"blockRewards": "500000",
				"bondingEarnings": "300000",
				"earnings": "800000",
				"endTime": "1647916696",
				"liquidityEarnings": "500000",
				"liquidityFees": "200000",
				"pools": [
					{
						"pool": "BTC.BTC",
						"assetLiquidityFees": "10",
						"earnings": "100",
						"rewards": "50",
						"runeLiquidityFees": "20",
						"saverEarning": "5",
						"totalLiquidityFeesRune": "30"
					}
				],
				"runePriceUSD": "4.2",
				"startTime": "1647913096"
			}
		],
		"meta": {"startTime": "1647913096", "endTime": "1647916696"}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/earnings", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	windows, endTime, err := client.FetchEarnings(context.Background(), "hour", 1647913096, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(1647916696), endTime)
	require.Len(t, windows, 1)

	summary := windows[0].Summary
	assert.InDelta(t, 102.5, summary.AvgNodeCount, 1e-9)
	assert.Equal(t, int64(800000), summary.Earnings)
	assert.Equal(t, int64(1647913096), summary.StartTime)

	require.Len(t, windows[0].Pools, 1)
	pool := windows[0].Pools[0]
	assert.Equal(t, "BTC.BTC", pool.Pool)
	assert.Equal(t, int64(5), pool.SaverEarnings)
	// Pool rows inherit the window's time bounds.
	assert.Equal(t, summary.StartTime, pool.StartTime)
	assert.Equal(t, summary.EndTime, pool.EndTime)
}

func TestClientFetchSwapsSendsPoolParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/swaps", r.URL.Path)
		assert.Equal(t, "BTC.BTC", r.URL.Query().Get("pool"))
		w.Write([]byte(`{"intervals": [], "meta": {"startTime": "0", "endTime": "3600"}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	samples, endTime, err := client.FetchSwaps(context.Background(), "BTC.BTC", "hour", 0, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), endTime)
	assert.Empty(t, samples)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, _, err := client.FetchRunePool(context.Background(), "hour", 0, 400)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"intervals": [{"count": "ten", "units": "1", "startTime": "0", "endTime": "3600"}], "meta": {"endTime": "3600"}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	_, _, err := client.FetchRunePool(context.Background(), "hour", 0, 400)
	assert.ErrorIs(t, err, ErrDecode)
}
