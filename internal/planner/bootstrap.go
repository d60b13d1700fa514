package planner

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/imamik/loadfleet/internal/config"
)

const toolBinary = "locust"

// setupCommands are the three commands every node runs before the tool
// starts: runtime and toolchain, the tool itself, and the shared test script.
func setupCommands(cfg *config.Config) []string {
	return []string{
		installRuntime(cfg.Bootstrap.OSFamily),
		installTool(cfg.Bootstrap.OSFamily, cfg.ToolVersion),
		fetchScript(cfg.Assets),
	}
}

func installRuntime(osFamily string) string {
	if osFamily == config.OSFamilyRHEL {
		return "yum -y install python3 python3-devel gcc awscli"
	}
	return "apt-get update -y && apt-get install -y python3 python3-dev python3-pip gcc awscli"
}

func installTool(osFamily, version string) string {
	pkg := toolBinary
	if version != "" {
		pkg += "==" + version
	}
	if osFamily == config.OSFamilyRHEL {
		return "pip3 install " + pkg
	}
	// Debian 12 marks the system interpreter as externally managed.
	return "pip3 install --break-system-packages " + pkg
}

func fetchScript(assets config.AssetsConfig) string {
	cmd := "aws s3 cp " + shellQuote("s3://"+assets.Bucket+"/"+assets.Key) + " " + shellQuote("./"+scriptFile(assets))
	if assets.Endpoint != "" {
		cmd += " --endpoint-url " + shellQuote(assets.Endpoint)
	}
	return cmd
}

// scriptFile is the local file name of the fetched test script.
func scriptFile(assets config.AssetsConfig) string {
	return path.Base(assets.Key)
}

// masterRunCommand implements the visibility x distributed decision table.
func masterRunCommand(cfg *config.Config) string {
	args := []string{toolBinary}
	if cfg.IsPrivate() {
		args = append(args,
			"--headless",
			"--users", strconv.Itoa(derefInt(cfg.UserCount)),
			"--spawn-rate", strconv.Itoa(derefInt(cfg.SpawnRate)),
		)
	} else {
		args = append(args, "--web-port", strconv.Itoa(config.WebUIPort))
	}
	args = append(args, "--locustfile", shellQuote(scriptFile(cfg.Assets)))

	if cfg.Distributed() {
		args = append(args, "--master")
		if cfg.IsPrivate() {
			args = append(args, "--expect-workers", strconv.Itoa(cfg.WorkerCount()))
		}
	}
	return strings.Join(args, " ")
}

// workerRunCommand is the same in both visibility modes: workers always dial
// the master's private address.
func workerRunCommand(cfg *config.Config) string {
	return strings.Join([]string{
		toolBinary,
		"--locustfile", shellQuote(scriptFile(cfg.Assets)),
		"--worker",
		"--master-host", Placeholder(RefMasterPrivateIP),
	}, " ")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./:=@+%-]+$`)

func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
