package authz_test

import (
	"context"
	"errors"
	"testing"

	"PastPort/internal/pkg/authz"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCheckOwner(t *testing.T) {
	assert := assert.New(t)

	owners := map[string]uint64{
		"c1": 100,
		"c2": 200,
	}

	reg := authz.NewRegistry()
	reg.Register(authz.KindCapsule, func(ctx context.Context, id string) (uint64, error) {
		owner, ok := owners[id]
		if !ok {
			return 0, errors.New("not found")
		}
		return owner, nil
	})

	ctx := context.Background()

	assert.Nil(reg.CheckOwner(ctx, authz.KindCapsule, "c1", 100))
	assert.ErrorIs(reg.CheckOwner(ctx, authz.KindCapsule, "c2", 100), authz.ErrNotOwner)
	assert.ErrorIs(reg.CheckOwner(ctx, authz.KindJournal, "c1", 100), authz.ErrUnknownResourceKind)

	// 查询失败原样透传
	err := reg.CheckOwner(ctx, authz.KindCapsule, "missing", 100)
	assert.NotNil(err)
	assert.NotErrorIs(err, authz.ErrNotOwner)
}
