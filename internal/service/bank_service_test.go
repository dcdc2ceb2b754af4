package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/pkg/paystack"
)

type stubBankLister struct {
	banks     []paystack.Bank
	err       error
	calls     int
	countries []string
}

func (s *stubBankLister) ListBanks(_ context.Context, country string) ([]paystack.Bank, error) {
	s.calls++
	s.countries = append(s.countries, country)
	return s.banks, s.err
}

func TestBankServiceCachesActiveBanks(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	lister := &stubBankLister{banks: []paystack.Bank{
		{Name: "Access Bank", Code: "044", Slug: "access-bank", Currency: "NGN", Active: true},
		{Name: "Closed Bank", Code: "999", Slug: "closed-bank", Currency: "NGN", Active: false},
	}}
	svc := NewBankService(lister, redisClient, time.Minute, validator.New(), zerolog.Nop())

	ctx := context.Background()
	first, hit, err := svc.List(ctx, dto.BankQuery{})
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, first, 1)
	require.Equal(t, "044", first[0].Code)
	require.Equal(t, []string{DefaultBankCountry}, lister.countries)
	require.True(t, mini.Exists("banks:nigeria"))

	second, hit, err := svc.List(ctx, dto.BankQuery{Country: " Nigeria "})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, first, second)
	require.Equal(t, 1, lister.calls)

	mini.FastForward(2 * time.Minute)

	_, hit, err = svc.List(ctx, dto.BankQuery{Country: "nigeria"})
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 2, lister.calls)
}

func TestBankServiceWithoutCache(t *testing.T) {
	lister := &stubBankLister{banks: []paystack.Bank{{Name: "GCB", Code: "040", Active: true}}}
	svc := NewBankService(lister, nil, 0, validator.New(), zerolog.Nop())

	banks, hit, err := svc.List(context.Background(), dto.BankQuery{Country: "ghana"})
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, banks, 1)
	require.Equal(t, []string{"ghana"}, lister.countries)
}

func TestBankServiceRejectsInvalidCountry(t *testing.T) {
	lister := &stubBankLister{}
	svc := NewBankService(lister, nil, time.Minute, validator.New(), zerolog.Nop())

	_, _, err := svc.List(context.Background(), dto.BankQuery{Country: "ng1; drop"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	require.Zero(t, lister.calls)
}

func TestBankServicePropagatesPaystackErrors(t *testing.T) {
	lister := &stubBankLister{err: &paystack.APIError{StatusCode: 401, Message: "Invalid key"}}
	svc := NewBankService(lister, nil, time.Minute, validator.New(), zerolog.Nop())

	_, _, err := svc.List(context.Background(), dto.BankQuery{Country: "nigeria"})

	var apiErr *paystack.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 401, apiErr.StatusCode)
}
