package hcloud

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ErrPeeringUnsupported is returned by clients whose provider has no network
// peering. Plans that carry peering routes cannot be applied with them.
var ErrPeeringUnsupported = errors.New("network peering is not supported by this provider")

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// IsRateLimited checks if an error indicates rate limiting.
func IsRateLimited(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeRateLimitExceeded)
}

// IsQuotaExceeded checks if the project ran out of resources of some kind.
func IsQuotaExceeded(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeResourceLimitExceeded, hcloud.ErrorCodeResourceUnavailable)
}
