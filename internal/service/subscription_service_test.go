package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/certprep-api/internal/models"
	"github.com/noah-isme/certprep-api/internal/repository"
)

type toggleCall struct {
	enable bool
	code   string
	token  string
}

type stubToggler struct {
	calls []toggleCall
	err   error
}

func (s *stubToggler) DisableSubscription(_ context.Context, code, token string) error {
	s.calls = append(s.calls, toggleCall{enable: false, code: code, token: token})
	return s.err
}

func (s *stubToggler) EnableSubscription(_ context.Context, code, token string) error {
	s.calls = append(s.calls, toggleCall{enable: true, code: code, token: token})
	return s.err
}

type failingSaveRepository struct {
	repository.SubscriptionRepository
	err error
}

func (r failingSaveRepository) Save(context.Context, *models.Subscription) error {
	return r.err
}

func setupSubscriptionService(t *testing.T, billing SubscriptionToggler, seed ...models.Subscription) (SubscriptionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}))

	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	return NewSubscriptionService(repository.NewSubscriptionRepository(db), billing, zerolog.Nop()), db
}

func TestSubscriptionServiceDowngradeAndRestore(t *testing.T) {
	billing := &stubToggler{}
	svc, db := setupSubscriptionService(t, billing, models.Subscription{
		UserID:                   "user-1",
		Plan:                     models.PlanPro,
		Status:                   models.SubscriptionStatusActive,
		PaystackSubscriptionCode: "SUB_abc",
		PaystackEmailToken:       "tok_123",
	})
	ctx := context.Background()

	downgraded, err := svc.Downgrade(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.PlanFree, downgraded.Plan)
	require.Equal(t, models.PlanPro, downgraded.PreviousPlan)
	require.Equal(t, models.SubscriptionStatusCancelled, downgraded.Status)
	require.True(t, downgraded.CanRestore)
	require.Equal(t, []toggleCall{{enable: false, code: "SUB_abc", token: "tok_123"}}, billing.calls)

	var stored models.Subscription
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&stored).Error)
	require.Equal(t, models.PlanFree, stored.Plan)
	require.Contains(t, stored.Metadata, "downgraded_at")

	_, err = svc.Downgrade(ctx, "user-1")
	require.ErrorIs(t, err, ErrAlreadyOnFreePlan)

	restored, err := svc.Restore(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.PlanPro, restored.Plan)
	require.Empty(t, restored.PreviousPlan)
	require.Equal(t, models.SubscriptionStatusActive, restored.Status)
	require.False(t, restored.CanRestore)
	require.Len(t, billing.calls, 2)
	require.True(t, billing.calls[1].enable)

	_, err = svc.Restore(ctx, "user-1")
	require.ErrorIs(t, err, ErrNothingToRestore)
}

func TestSubscriptionServiceMissingUser(t *testing.T) {
	svc, _ := setupSubscriptionService(t, nil)

	_, err := svc.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrSubscriptionNotFound)

	_, err = svc.Downgrade(context.Background(), "")
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestSubscriptionServiceSkipsBillingWithoutCode(t *testing.T) {
	billing := &stubToggler{}
	svc, _ := setupSubscriptionService(t, billing, models.Subscription{
		UserID: "user-2",
		Plan:   models.PlanPremium,
		Status: models.SubscriptionStatusActive,
	})

	response, err := svc.Downgrade(context.Background(), "user-2")
	require.NoError(t, err)
	require.Equal(t, models.PlanFree, response.Plan)
	require.Empty(t, billing.calls)
}

func TestSubscriptionServiceBillingFailureLeavesPlan(t *testing.T) {
	billing := &stubToggler{err: errors.New("paystack: Subscription not found")}
	svc, _ := setupSubscriptionService(t, billing, models.Subscription{
		UserID:                   "user-3",
		Plan:                     models.PlanPro,
		Status:                   models.SubscriptionStatusActive,
		PaystackSubscriptionCode: "SUB_x",
	})
	ctx := context.Background()

	_, err := svc.Downgrade(ctx, "user-3")
	require.Error(t, err)
	require.ErrorIs(t, err, billing.err)

	current, err := svc.Get(ctx, "user-3")
	require.NoError(t, err)
	require.Equal(t, models.PlanPro, current.Plan)
	require.Equal(t, models.SubscriptionStatusActive, current.Status)
}

func TestSubscriptionServiceSaveFailureRevertsBilling(t *testing.T) {
	seed := models.Subscription{
		UserID:                   "user-4",
		Plan:                     models.PlanPro,
		Status:                   models.SubscriptionStatusActive,
		PaystackSubscriptionCode: "SUB_rev",
		PaystackEmailToken:       "tok_rev",
	}
	_, db := setupSubscriptionService(t, nil, seed)

	billing := &stubToggler{}
	saveErr := errors.New("database is locked")
	svc := NewSubscriptionService(failingSaveRepository{
		SubscriptionRepository: repository.NewSubscriptionRepository(db),
		err:                    saveErr,
	}, billing, zerolog.Nop())

	_, err := svc.Downgrade(context.Background(), "user-4")
	require.ErrorIs(t, err, saveErr)
	require.Equal(t, []toggleCall{
		{enable: false, code: "SUB_rev", token: "tok_rev"},
		{enable: true, code: "SUB_rev", token: "tok_rev"},
	}, billing.calls)

	var stored models.Subscription
	require.NoError(t, db.Where("user_id = ?", "user-4").First(&stored).Error)
	require.Equal(t, models.PlanPro, stored.Plan)
}

func TestSubscriptionServiceRestoreSaveFailureDisablesBillingAgain(t *testing.T) {
	_, db := setupSubscriptionService(t, nil, models.Subscription{
		UserID:                   "user-5",
		Plan:                     models.PlanFree,
		PreviousPlan:             models.PlanPro,
		Status:                   models.SubscriptionStatusCancelled,
		PaystackSubscriptionCode: "SUB_res",
	})

	billing := &stubToggler{}
	svc := NewSubscriptionService(failingSaveRepository{
		SubscriptionRepository: repository.NewSubscriptionRepository(db),
		err:                    errors.New("disk full"),
	}, billing, zerolog.Nop())

	_, err := svc.Restore(context.Background(), "user-5")
	require.Error(t, err)
	require.Len(t, billing.calls, 2)
	require.True(t, billing.calls[0].enable)
	require.False(t, billing.calls[1].enable)
}
