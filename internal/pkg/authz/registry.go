package authz

import (
	"context"
	"errors"
)

// ResourceKind 资源类型由调用方显式声明，不从路由推断
type ResourceKind string

const (
	KindCapsule      ResourceKind = "capsule"
	KindJournal      ResourceKind = "journal"
	KindNotification ResourceKind = "notification"
)

var (
	ErrUnknownResourceKind = errors.New("未注册的资源类型")
	ErrNotOwner            = errors.New("不是资源属主")
)

// OwnerLookup 按 ID 查询某类资源的属主
type OwnerLookup func(ctx context.Context, id string) (uint64, error)

// Registry 资源类型到属主查询函数的映射
type Registry struct {
	lookups map[ResourceKind]OwnerLookup
}

func NewRegistry() *Registry {
	return &Registry{
		lookups: make(map[ResourceKind]OwnerLookup),
	}
}

func (r *Registry) Register(kind ResourceKind, lookup OwnerLookup) {
	r.lookups[kind] = lookup
}

// CheckOwner 校验 userID 是否为指定资源的属主
func (r *Registry) CheckOwner(ctx context.Context, kind ResourceKind, id string, userID uint64) error {
	lookup, ok := r.lookups[kind]
	if !ok {
		return ErrUnknownResourceKind
	}

	ownerID, err := lookup(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrNotOwner
	}
	return nil
}
