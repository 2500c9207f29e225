// Package authz enforces the role policy of the pipeline with casbin.
//
// The model and the default policy are embedded. Each policy line grants one role
// an action on a resource; Admin holds the wildcard.
package authz

import (
	_ "embed"
	"fmt"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var DefaultPolicy string

type CasbinAuthorizer struct {
	enforcer *casbin.Enforcer
}

// NewCasbinAuthorizer builds an enforcer from the embedded model and policy,
// which is DefaultPolicy when empty.
func NewCasbinAuthorizer(policy string) (*CasbinAuthorizer, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("initialize casbin enforcer: %w", err)
	}
	return &CasbinAuthorizer{enforcer: enforcer}, nil
}

func (a *CasbinAuthorizer) Authorize(actor kernel.Actor, resource, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	role := actor.Role().String()
	allowed, err := a.enforcer.Enforce(role, resource, action)
	if err != nil {
		return fmt.Errorf("casbin enforce: %w", err)
	}
	if !allowed {
		return errs.NewAccessDeniedError(role, resource, action)
	}
	return nil
}
