package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"collabhub/internal/auth"
	"collabhub/internal/common"
	"collabhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PasswordResetServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockTokenRepo *MockResetTokenRepository
	mockMailer    *MockMailer
	mockCache     *MockCacheService
	codec         *auth.TokenCodec
	service       PasswordResetService
	ctx           context.Context
	user          *models.User
}

func (suite *PasswordResetServiceTestSuite) SetupTest() {
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockTokenRepo = &MockResetTokenRepository{}
	suite.mockMailer = &MockMailer{}
	suite.mockCache = &MockCacheService{}
	suite.codec = auth.NewTokenCodec("test-secret")
	suite.service = NewPasswordResetService(suite.mockUserRepo, suite.mockTokenRepo,
		suite.codec, suite.mockMailer, suite.mockCache, 10*time.Minute, zerolog.Nop())
	suite.ctx = context.Background()

	suite.user = &models.User{
		ID:     uuid.New(),
		Name:   "Alex",
		Email:  "alex@example.com",
		Role:   models.RoleUser,
		Status: models.StatusActive,
	}
}

func (suite *PasswordResetServiceTestSuite) allowRateLimit() {
	suite.mockCache.On("IsRateLimited", suite.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil)
}

// issueToken mints a valid reset token and wires the latest-row lookup.
func (suite *PasswordResetServiceTestSuite) issueToken(mutate func(*models.PasswordResetToken)) string {
	token, err := suite.codec.Issue(suite.user.ID, "", 10*time.Minute)
	suite.Require().NoError(err)

	row := &models.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    suite.user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(10 * time.Minute),
		Used:      false,
		CreatedAt: time.Now(),
	}
	if mutate != nil {
		mutate(row)
	}
	suite.mockTokenRepo.On("GetLatestByUserID", suite.ctx, suite.user.ID).Return(row, nil)
	return token
}

func (suite *PasswordResetServiceTestSuite) TestForgotPassword_Success() {
	suite.allowRateLimit()
	suite.mockUserRepo.On("GetByEmail", suite.ctx, suite.user.Email).Return(suite.user, nil)
	suite.mockTokenRepo.On("Create", suite.ctx, mock.MatchedBy(func(row *models.PasswordResetToken) bool {
		return row.UserID == suite.user.ID && !row.Used && row.Token != ""
	})).Return(nil)
	suite.mockMailer.On("SendPasswordReset", suite.ctx, suite.user.Email, suite.user.Name, mock.Anything).
		Return(nil)

	err := suite.service.ForgotPassword(suite.ctx, suite.user.Email)

	assert.NoError(suite.T(), err)
	suite.mockTokenRepo.AssertExpectations(suite.T())
	suite.mockMailer.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestForgotPassword_UnknownEmail() {
	suite.allowRateLimit()
	suite.mockUserRepo.On("GetByEmail", suite.ctx, "nobody@example.com").Return(nil, pgx.ErrNoRows)

	err := suite.service.ForgotPassword(suite.ctx, "nobody@example.com")

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindNotFound, appErr.Kind)
}

func (suite *PasswordResetServiceTestSuite) TestForgotPassword_MailerFailure() {
	suite.allowRateLimit()
	suite.mockUserRepo.On("GetByEmail", suite.ctx, suite.user.Email).Return(suite.user, nil)
	suite.mockTokenRepo.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.mockMailer.On("SendPasswordReset", suite.ctx, suite.user.Email, suite.user.Name, mock.Anything).
		Return(errors.New("smtp timeout"))

	err := suite.service.ForgotPassword(suite.ctx, suite.user.Email)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindInternal, appErr.Kind)
}

func (suite *PasswordResetServiceTestSuite) TestForgotPassword_RateLimited() {
	suite.mockCache.On("IsRateLimited", suite.ctx, "forgot:"+suite.user.Email, mock.Anything, mock.Anything).
		Return(true, nil)

	err := suite.service.ForgotPassword(suite.ctx, suite.user.Email)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindBadRequest, appErr.Kind)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetByEmail", mock.Anything, mock.Anything)
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword_Success() {
	token := suite.issueToken(nil)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)
	suite.mockTokenRepo.On("Redeem", suite.ctx, mock.Anything, suite.user.ID,
		mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "new-password-1")
		})).Return(nil)

	err := suite.service.ResetPassword(suite.ctx, token, "new-password-1")

	assert.NoError(suite.T(), err)
	suite.mockTokenRepo.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword_RejectionsAreUniform() {
	// no row, mismatched token, already used and expired must all produce the
	// same outward error.
	var messages []string
	var kinds []common.ErrorKind

	record := func(err error) {
		appErr := common.AsAppError(err)
		kinds = append(kinds, appErr.Kind)
		messages = append(messages, appErr.Message)
	}

	// No stored row at all.
	suite.SetupTest()
	token, err := suite.codec.Issue(suite.user.ID, "", 10*time.Minute)
	suite.Require().NoError(err)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)
	suite.mockTokenRepo.On("GetLatestByUserID", suite.ctx, suite.user.ID).Return(nil, pgx.ErrNoRows)
	record(suite.service.ResetPassword(suite.ctx, token, "new-password-1"))

	// Presented token is not the most recent row.
	suite.SetupTest()
	token = suite.issueToken(func(row *models.PasswordResetToken) { row.Token = "a-newer-token" })
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)
	record(suite.service.ResetPassword(suite.ctx, token, "new-password-1"))

	// Row already redeemed.
	suite.SetupTest()
	token = suite.issueToken(func(row *models.PasswordResetToken) { row.Used = true })
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)
	record(suite.service.ResetPassword(suite.ctx, token, "new-password-1"))

	// Row expired by wall clock.
	suite.SetupTest()
	token = suite.issueToken(func(row *models.PasswordResetToken) {
		row.ExpiresAt = time.Now().Add(-time.Minute)
	})
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)
	record(suite.service.ResetPassword(suite.ctx, token, "new-password-1"))

	for i := range kinds {
		assert.Equal(suite.T(), common.KindBadRequest, kinds[i])
		assert.Equal(suite.T(), messages[0], messages[i])
	}
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword_InvalidToken() {
	err := suite.service.ResetPassword(suite.ctx, "not-a-jwt", "new-password-1")

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindUnauthenticated, appErr.Kind)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword_BannedUser() {
	suite.user.Status = models.StatusBanned
	token, err := suite.codec.Issue(suite.user.ID, "", 10*time.Minute)
	suite.Require().NoError(err)
	suite.mockUserRepo.On("GetByID", suite.ctx, suite.user.ID).Return(suite.user, nil)

	err = suite.service.ResetPassword(suite.ctx, token, "new-password-1")

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindUnauthorized, appErr.Kind)
	suite.mockTokenRepo.AssertNotCalled(suite.T(), "GetLatestByUserID", mock.Anything, mock.Anything)
}

func (suite *PasswordResetServiceTestSuite) TestAdminResetPassword_Success() {
	suite.mockUserRepo.On("GetByEmail", suite.ctx, suite.user.Email).Return(suite.user, nil)
	suite.mockUserRepo.On("UpdatePassword", suite.ctx, suite.user.ID,
		mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "admin-chosen-pw")
		})).Return(nil)

	err := suite.service.AdminResetPassword(suite.ctx, suite.user.Email, "admin-chosen-pw", uuid.New())

	assert.NoError(suite.T(), err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestAdminResetPassword_UnknownEmail() {
	suite.mockUserRepo.On("GetByEmail", suite.ctx, "nobody@example.com").Return(nil, pgx.ErrNoRows)

	err := suite.service.AdminResetPassword(suite.ctx, "nobody@example.com", "whatever-pw", uuid.New())

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindNotFound, appErr.Kind)
}

func TestPasswordResetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordResetServiceTestSuite))
}
