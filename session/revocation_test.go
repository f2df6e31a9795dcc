package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Kushal-Harsora/questionaire/conf"
)

type redisRevocationTestSuite struct {
	suite.Suite
	store RevocationStore
}

func (suite *redisRevocationTestSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		suite.T().Skip("REDIS_ADDR not set")
	}

	store, err := NewRevocationStore(conf.Revocation{
		Driver: conf.RedisRevocation,
		Addr:   addr,
	})
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.store = store
}

func (suite *redisRevocationTestSuite) TestRevoke() {
	ctx := context.Background()
	id := ulid.Make().String()

	revoked, err := suite.store.IsRevoked(ctx, id)
	suite.Require().NoError(err)
	suite.False(revoked)

	err = suite.store.Revoke(ctx, id, time.Now().Add(time.Minute))
	suite.Require().NoError(err)

	revoked, err = suite.store.IsRevoked(ctx, id)
	suite.Require().NoError(err)
	suite.True(revoked)
}

func (suite *redisRevocationTestSuite) TestRevokeExpires() {
	ctx := context.Background()
	id := ulid.Make().String()

	err := suite.store.Revoke(ctx, id, time.Now().Add(time.Second))
	suite.Require().NoError(err)

	suite.Eventually(func() bool {
		revoked, err := suite.store.IsRevoked(ctx, id)
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}

func (suite *redisRevocationTestSuite) TestRevokePastExpiryIsNoop() {
	ctx := context.Background()
	id := ulid.Make().String()

	err := suite.store.Revoke(ctx, id, time.Now().Add(-time.Minute))
	suite.Require().NoError(err)

	revoked, err := suite.store.IsRevoked(ctx, id)
	suite.Require().NoError(err)
	suite.False(revoked)
}

func (suite *redisRevocationTestSuite) TestManagerRevoke() {
	ctx := context.Background()

	manager, err := NewManager("http://localhost:8080", conf.JWT{
		Secret:  []byte("0123456789abcdef0123456789abcdef"),
		Timeout: time.Minute,
	}, suite.store)
	suite.Require().NoError(err)

	token, err := manager.Issue("someone@example.com")
	suite.Require().NoError(err)

	claims, err := manager.Parse(ctx, token.Token)
	suite.Require().NoError(err)

	err = manager.Revoke(ctx, claims)
	suite.Require().NoError(err)

	_, err = manager.Parse(ctx, token.Token)
	suite.ErrorIs(err, ErrTokenRevoked)
}

func (suite *redisRevocationTestSuite) TearDownSuite() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func TestRedisRevocationTestSuite(t *testing.T) {
	suite.Run(t, new(redisRevocationTestSuite))
}

func TestUnknownRevocationDriver(t *testing.T) {
	_, err := NewRevocationStore(conf.Revocation{Driver: conf.RevocationDriver(99)})
	assert.Error(t, err)
}
