package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmccarty/tradeops/internal/user"
)

func TestService_Create_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo)

	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.NotEqual(t, "hunter2", u.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")))
			return nil
		})

	u, err := svc.Create(context.Background(), user.CreateParams{
		Username: "mharris",
		FullName: "Mike Harris",
		Role:     user.RoleTech,
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.True(t, u.IsTech())
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &user.User{Username: "mharris", Role: user.RoleTech, PasswordHash: string(hash)}

	type testCase struct {
		name      string
		username  string
		password  string
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			username: "mharris",
			password: "hunter2",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(stored, nil)
			},
		},
		{
			name:     "WrongPassword",
			username: "mharris",
			password: "hunter3",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(stored, nil)
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "UnknownUser",
			username: "ghost",
			password: "hunter2",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetUser(gomock.Any(), "ghost").Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := user.NewService(repo)
			got, err := svc.Authenticate(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.username, got.Username)
		})
	}
}

func TestService_ListTechs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo)

	repo.EXPECT().
		ListUsers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, role *user.Role) ([]*user.User, error) {
			require.NotNil(t, role)
			assert.Equal(t, user.RoleTech, *role)
			return []*user.User{{Username: "mharris", Role: user.RoleTech}}, nil
		})

	techs, err := svc.ListTechs(context.Background())
	require.NoError(t, err)
	assert.Len(t, techs, 1)
}
