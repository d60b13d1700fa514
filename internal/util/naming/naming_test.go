package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingFunctions(t *testing.T) {
	t.Parallel()
	cluster := "test-cluster"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Network", Network(cluster), "test-cluster-net"},
		{"Subnet", Subnet("private", 2), "private-2"},
		{"Master", Master(cluster), "test-cluster-master"},
		{"Worker", Worker(cluster, 3), "test-cluster-worker-3"},
		{"SecurityGroup", SecurityGroup(cluster, "worker"), "test-cluster-worker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestRoute(t *testing.T) {
	t.Parallel()

	a := Route("net-a", "net-b", "public-0")
	assert.Equal(t, a, Route("net-a", "net-b", "public-0"), "route names must be stable")
	assert.True(t, strings.HasPrefix(a, "peer-route-"))
	assert.Len(t, a, len("peer-route-")+8)

	assert.NotEqual(t, a, Route("net-b", "net-a", "public-0"), "direction is part of the identity")
	assert.NotEqual(t, a, Route("net-a", "net-b", "private-0"))
}
