package config

import (
	"errors"
	"fmt"
	"net/netip"
	"reflect"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned (wrapped) for every configuration that violates
// the cluster invariants. No plan is produced from such a config.
var ErrInvalidConfig = errors.New("invalid config")

var dnsLabelRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,61}[a-z0-9]$|^[a-z]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report config keys instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("dnslabel", func(fl validator.FieldLevel) bool {
		return dnsLabelRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("toolversion", func(fl validator.FieldLevel) bool {
		_, err := semver.StrictNewVersion(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
// Every returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	problems = append(problems, c.validateVisibility()...)
	problems = append(problems, c.validateNetwork()...)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// validateVisibility enforces the headless run parameters.
func (c *Config) validateVisibility() []string {
	var problems []string

	if c.Visibility != "" && c.Headless != nil {
		headless := c.Visibility == VisibilityPrivate
		if headless != *c.Headless {
			problems = append(problems, fmt.Sprintf("headless=%t contradicts visibility=%s", *c.Headless, c.Visibility))
		}
	}

	if !c.IsPrivate() {
		return problems
	}
	if c.UserCount == nil {
		problems = append(problems, "user_count is required for a headless (private) cluster")
	} else if *c.UserCount < 0 {
		problems = append(problems, fmt.Sprintf("user_count must be non-negative, got %d", *c.UserCount))
	}
	if c.SpawnRate == nil {
		problems = append(problems, "spawn_rate is required for a headless (private) cluster")
	} else if *c.SpawnRate < 0 {
		problems = append(problems, fmt.Sprintf("spawn_rate must be non-negative, got %d", *c.SpawnRate))
	}
	return problems
}

// validateNetwork checks the network range against the peer range.
func (c *Config) validateNetwork() []string {
	if c.Network.CIDR != "" && c.Network.SubnetPairs > 0 {
		if _, _, err := SplitSubnets(c.Network.CIDR, c.Network.SubnetPairs); err != nil {
			if _, perr := netip.ParsePrefix(c.Network.CIDR); perr == nil {
				return []string{fmt.Sprintf("network.cidr %s cannot hold %d subnet pairs: %v", c.Network.CIDR, c.Network.SubnetPairs, err)}
			}
		}
	}
	if c.Peering == nil || c.Peering.PeerCIDR == "" || c.Network.CIDR == "" {
		return nil
	}
	own, err := netip.ParsePrefix(c.Network.CIDR)
	if err != nil {
		return nil // reported by the struct validator
	}
	peer, err := netip.ParsePrefix(c.Peering.PeerCIDR)
	if err != nil {
		return nil
	}
	if own.Overlaps(peer) {
		return []string{fmt.Sprintf("peering.peer_cidr %s overlaps network.cidr %s", peer, own)}
	}
	return nil
}

// describeFieldError turns a validator error into a config-key message.
func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "cidrv4":
		return fmt.Sprintf("%s must be an IPv4 CIDR, got %q", field, fe.Value())
	case "toolversion":
		return fmt.Sprintf("%s must be a semantic version (e.g. 2.1.0), got %q", field, fe.Value())
	case "dnslabel":
		return fmt.Sprintf("%s must be a lowercase DNS label, got %q", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ApplyDefaults applies sensible defaults to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Network.CIDR == "" {
		c.Network.CIDR = DefaultNetworkCIDR
	}
	if c.Network.Zone == "" {
		c.Network.Zone = DefaultNetworkZone
	}
	if c.Network.SubnetPairs == 0 {
		c.Network.SubnetPairs = 1
	}
	if c.Assets.Key == "" {
		c.Assets.Key = DefaultAssetKey
	}
	if c.Assets.ScriptPath == "" {
		c.Assets.ScriptPath = c.Assets.Key
	}
	if c.Bootstrap.OSFamily == "" {
		c.Bootstrap.OSFamily = OSFamilyDebian
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.Location == "" {
		c.Location = DefaultLocation
	}
}
