package handlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/imamik/loadfleet/internal/planner"
)

// renderPlanTable formats a plan as a summary followed by node and subnet tables.
func renderPlanTable(plan *planner.ClusterPlan) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Cluster:     %s (%s)\n", plan.ClusterName, plan.Visibility)
	fmt.Fprintf(&buf, "Network:     %s %s (%s)\n", plan.Network.Name, plan.Network.CIDR, plan.Network.Zone)
	fmt.Fprintf(&buf, "Entry point: %s via %s\n", plan.EntryPoint.Node, plan.EntryPoint.Address)
	fmt.Fprintf(&buf, "Assets:      s3://%s/%s\n", plan.Assets.Bucket, plan.Assets.Key)
	if len(plan.Deferred) > 0 {
		fmt.Fprintf(&buf, "Resolved at apply: %s\n", strings.Join(plan.Deferred, ", "))
	}
	buf.WriteString("\n")

	nodes := newTable(&buf, []string{"NAME", "ROLE", "TYPE", "SUBNET", "PUBLIC IP", "SECURITY GROUP", "RUN COMMAND"})
	for _, n := range plan.Nodes {
		nodes.Append([]string{
			n.Name,
			string(n.Role),
			n.InstanceType,
			n.Subnet,
			fmt.Sprintf("%t", n.PublicIP),
			n.SecurityGroup,
			n.RunCommand(),
		})
	}
	nodes.Render()
	buf.WriteString("\n")

	subnets := newTable(&buf, []string{"SUBNET", "KIND", "CIDR"})
	for _, s := range plan.Network.Subnets {
		subnets.Append([]string{s.Name, string(s.Kind), s.CIDR})
	}
	subnets.Render()

	if plan.HasPeering() {
		buf.WriteString("\n")
		routes := newTable(&buf, []string{"ROUTE", "FROM", "SUBNET", "TO", "DESTINATION"})
		for _, r := range plan.PeeringRoutes {
			routes.Append([]string{r.ID, r.SourceNetwork, r.Subnet.String(), r.DestinationNetwork, r.DestinationCIDR.String()})
		}
		routes.Render()
	}
	return buf.String()
}

func newTable(buf *bytes.Buffer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
