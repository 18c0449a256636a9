package repository

import (
	"context"
	"testing"
	"time"

	"techStore/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

func TestNewRedisRepositories_NilConn(t *testing.T) {
	ctx := context.Background()

	_, err := NewCartRepository(ctx, nil, time.Hour)
	assert.Error(t, err)
	_, err = NewReceiptRepository(ctx, nil, time.Hour)
	assert.Error(t, err)
	_, err = NewSessionRepository(ctx, nil, time.Hour)
	assert.Error(t, err)
}

func TestNewCartRepository_Unreachable(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer client.Close()
	mr.Close()

	_, err := NewCartRepository(context.Background(), client, time.Hour)
	assert.Error(t, err)
}

func TestCartRepo(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewCartRepository(ctx, client, time.Hour)
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	want := models.Cart{Lines: []models.CartLine{
		{Id: 3, Name: "AirPods Pro 2", Price: 5000, Quantity: 2},
		{Id: 1, Name: "iPhone 15", Price: 55000, Quantity: 1},
	}}
	require.NoError(t, repo.SetCart(ctx, "s1", want))

	got, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, mr.Exists("cart:s1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:s1"))

	other, err := repo.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	require.NoError(t, repo.DeleteCart(ctx, "s1"))
	assert.False(t, mr.Exists("cart:s1"))
}

func TestCartRepo_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewCartRepository(ctx, client, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.SetCart(ctx, "s1", models.Cart{Lines: []models.CartLine{{Id: 1, Quantity: 1}}}))

	mr.FastForward(2 * time.Minute)

	cart, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartRepo_CorruptPayload(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewCartRepository(ctx, client, time.Hour)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:s1", "not json"))

	_, err = repo.GetCart(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrServerError)
}

func TestReceiptRepo(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewReceiptRepository(ctx, client, time.Hour)
	require.NoError(t, err)

	_, exists, err := repo.GetReceipt(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, exists)

	first := models.Receipt{
		Id:          "r-1",
		Lines:       []models.CartLine{{Id: 1, Name: "iPhone 15", Price: 100, Quantity: 5}},
		Total:       500,
		PurchasedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Visible:     true,
	}
	require.NoError(t, repo.SetReceipt(ctx, "s1", first))

	got, exists, err := repo.GetReceipt(ctx, "s1")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, first, got)

	second := first
	second.Id = "r-2"
	second.Visible = false
	require.NoError(t, repo.SetReceipt(ctx, "s1", second))

	got, _, err = repo.GetReceipt(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "r-2", got.Id)
	assert.False(t, got.Visible)
}

func TestSessionRepo(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewSessionRepository(ctx, client, time.Minute)
	require.NoError(t, err)

	sid, err := repo.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	assert.Equal(t, time.Minute, mr.TTL("session:"+sid))

	ok, err := repo.CheckSession(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CheckSession(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = repo.CheckSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepo_RefreshExtendsCartAndReceipt(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	sessions, err := NewSessionRepository(ctx, client, time.Minute)
	require.NoError(t, err)
	carts, err := NewCartRepository(ctx, client, time.Minute)
	require.NoError(t, err)
	receipts, err := NewReceiptRepository(ctx, client, time.Minute)
	require.NoError(t, err)

	sid, err := sessions.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, carts.SetCart(ctx, sid, models.Cart{Lines: []models.CartLine{{Id: 1, Quantity: 1}}}))
	require.NoError(t, receipts.SetReceipt(ctx, sid, models.Receipt{Id: "r-1", Visible: true}))

	mr.FastForward(45 * time.Second)
	require.NoError(t, sessions.RefreshSession(ctx, sid))
	mr.FastForward(45 * time.Second)

	ok, err := sessions.CheckSession(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ok)
	cart, err := carts.GetCart(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
	_, exists, err := receipts.GetReceipt(ctx, sid)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSessionRepo_CreateSessionStoreError(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	repo, err := NewSessionRepository(ctx, client, time.Minute)
	require.NoError(t, err)

	mr.SetError("boom")
	sid, err := repo.CreateSession(ctx)
	assert.ErrorIs(t, err, models.ErrServerError)
	assert.Empty(t, sid)
	mr.SetError("")
	assert.Empty(t, mr.Keys())

	sid, err = repo.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("session:"+sid))
}
