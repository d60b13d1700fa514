package planner

import (
	"github.com/imamik/loadfleet/internal/config"
	"github.com/imamik/loadfleet/internal/util/naming"
)

const protocolTCP = "tcp"

func sshRule() InboundRule {
	return InboundRule{
		Description: "management access",
		Protocol:    protocolTCP,
		Ports:       Port(config.SSHPort),
		Source:      SourceSelector{Kind: SourceCIDR, Value: config.AnyIPv4},
	}
}

func masterRules(cfg *config.Config) []InboundRule {
	rules := []InboundRule{sshRule()}
	if !cfg.IsPrivate() {
		rules = append(rules, InboundRule{
			Description: "web ui",
			Protocol:    protocolTCP,
			Ports:       Port(config.WebUIPort),
			Source:      SourceSelector{Kind: SourceCIDR, Value: config.AnyIPv4},
		})
	}
	if cfg.Distributed() {
		// Workers dial the master; the master never dials back.
		rules = append(rules, InboundRule{
			Description: "worker coordination",
			Protocol:    protocolTCP,
			Ports:       Port(config.CoordinationPort),
			Source: SourceSelector{
				Kind:  SourceGroup,
				Value: naming.SecurityGroup(cfg.ClusterName, string(RoleWorker)),
			},
		})
	}
	return rules
}

func workerRules() []InboundRule {
	return []InboundRule{sshRule()}
}
