package compute

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/imamik/loadfleet/internal/planner"
)

// WorkDir is where the test script is fetched to and the tool runs from.
const WorkDir = "/opt/loadfleet"

// LogFile receives the tool's output.
const LogFile = "/var/log/loadfleet.log"

var userDataTemplate = template.Must(template.New("userdata").
	Funcs(sprig.TxtFuncMap()).
	Option("missingkey=error").
	Parse(`#!/bin/bash
# {{ .Node }} ({{ .Role }})
set -euo pipefail
{{- if .AccessKey }}
export AWS_ACCESS_KEY_ID={{ .AccessKey | squote }}
export AWS_SECRET_ACCESS_KEY={{ .SecretKey | squote }}
{{- end }}
{{- if .Region }}
export AWS_DEFAULT_REGION={{ .Region | squote }}
{{- end }}
mkdir -p {{ .WorkDir }}
cd {{ .WorkDir }}
{{- range .Setup }}
{{ . }}
{{- end }}
nohup {{ .Run }} > {{ .LogFile }} 2>&1 &
`))

// UserDataOptions carries what the rendered script needs besides the node.
type UserDataOptions struct {
	// AccessKey and SecretKey are exported for the script download. When
	// empty the node relies on its own credentials.
	AccessKey string
	SecretKey string
	Region    string
}

type userData struct {
	Node      string
	Role      planner.NodeRole
	AccessKey string
	SecretKey string
	Region    string
	WorkDir   string
	LogFile   string
	Setup     []string
	Run       string
}

// RenderUserData renders a resolved node's bootstrap script as user data.
// The last bootstrap command starts the tool in the background; the others
// run in order and abort the script on failure.
func RenderUserData(node planner.NodePlan, opts UserDataOptions) (string, error) {
	if len(node.BootstrapScript) == 0 {
		return "", fmt.Errorf("node %s has no bootstrap script", node.Name)
	}
	for _, cmd := range node.BootstrapScript {
		if refs := planner.Refs(cmd); len(refs) > 0 {
			return "", fmt.Errorf("node %s: %w: %s", node.Name, planner.ErrUnresolvedReference, refs[0])
		}
	}

	data := userData{
		Node:      node.Name,
		Role:      node.Role,
		AccessKey: opts.AccessKey,
		SecretKey: opts.SecretKey,
		Region:    opts.Region,
		WorkDir:   WorkDir,
		LogFile:   LogFile,
		Setup:     node.BootstrapScript[:len(node.BootstrapScript)-1],
		Run:       node.RunCommand(),
	}

	var buf bytes.Buffer
	if err := userDataTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render user data for %s: %w", node.Name, err)
	}
	return buf.String(), nil
}
