// Package rbac is the authorization gate: it answers whether a role may
// perform an action on a resource. Policies are static — the system has
// exactly two roles and no approval-chain modeling.
package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies: role, resource, action
var policies = [][]string{
	{"employee", "attendance", "mark"},
	{"employee", "attendance", "read"},
	{"employee", "leave", "apply"},
	{"employee", "leave", "read"},
	{"employee", "leave", "update"},
	{"employee", "leave", "cancel"},
	{"admin", "attendance", "read_all"},
	{"admin", "attendance", "stats"},
	{"admin", "leave", "read_all"},
	{"admin", "leave", "decide"},
	{"admin", "leave", "stats"},
	{"admin", "users", "read"},
	{"admin", "users", "update"},
	{"admin", "users", "stats"},
}

// admin inherits every employee permission, mirroring the original
// behavior where self-service endpoints accept both roles.
var groupings = [][]string{
	{"admin", "employee"},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(groupings); err != nil {
		return nil, err
	}
	return &service{enforcer: e}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}
