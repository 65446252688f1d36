package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocket/internal/matching"
)

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		mapping   matching.Mapping
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "Success",
			mapping: matching.Mapping{Pattern: "  UBER ", Payee: "Uber", CategoryID: "transport"},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					CreateMapping(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, got matching.Mapping) error {
						assert.Equal(t, "UBER", got.Pattern)
						assert.False(t, got.CreatedAt.IsZero())
						return nil
					})
			},
		},
		{
			name:      "EmptyPattern",
			mapping:   matching.Mapping{Pattern: " ", Payee: "Uber"},
			setupMock: func(*matching.MockRepository) {},
			wantErr:   matching.ErrEmptyPattern,
		},
		{
			name:    "RepoError",
			mapping: matching.Mapping{Pattern: "UBER", Payee: "Uber"},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := matching.NewService(repo).Learn(context.Background(), tt.mapping)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	repo.EXPECT().FindMatch(gomock.Any(), "UBER TRIP").Return(&matching.Mapping{Payee: "Uber"}, nil)

	svc := matching.NewService(repo)

	got, err := svc.Suggest(context.Background(), " UBER TRIP ")
	assert.NoError(t, err)
	assert.Equal(t, "Uber", got.Payee)

	got, err = svc.Suggest(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
