package dynamo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	k := strKey(fieldUserID, "u1")
	v, ok := k[fieldUserID].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "u1", v.Value)
}

func TestIsConditionFailed(t *testing.T) {
	assert.False(t, isConditionFailed(nil))
	assert.False(t, isConditionFailed(errors.New("boom")))
	assert.True(t, isConditionFailed(fmt.Errorf("put: %w", &types.ConditionalCheckFailedException{})))
}

func TestUserItem_AttributeNames(t *testing.T) {
	item, err := attributevalue.MarshalMap(&domain.User{
		UserID:    "u1",
		Name:      "Ada",
		Email:     "a@x.com",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Contains(t, item, fieldUserID)
	assert.Contains(t, item, fieldEmail)
	assert.Contains(t, item, "name")
}
