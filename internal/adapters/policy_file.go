package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/ports"
	"apibaseline/internal/types"
)

type PolicyFileAdapter struct{}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{}
}

func (a PolicyFileAdapter) LoadPolicy(path string) (types.Policy, error) {
	var policy types.Policy
	if err := readDocument(path, "policy", &policy); err != nil {
		return types.Policy{}, err
	}
	if policy.APIVersion != "" && policy.APIVersion != types.PolicyAPIVersion {
		return types.Policy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported policy api_version: %s", policy.APIVersion))
	}
	return policy, nil
}

var _ ports.PolicyPort = PolicyFileAdapter{}
