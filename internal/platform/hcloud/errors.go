package hcloud

import (
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/fipctl/internal/fip"
)

// classify maps an hcloud API error onto the fip error taxonomy. Errors
// without a matching code are returned unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isHCloudErrorCode(err, hcloud.ErrorCodeUnauthorized):
		return fmt.Errorf("%w: %w", fip.ErrAuthentication, err)
	case isHCloudErrorCode(err, hcloud.ErrorCodeForbidden):
		return fmt.Errorf("%w: %w", fip.ErrAuthorization, err)
	case isHCloudErrorCode(err, hcloud.ErrorCodeNotFound):
		return fmt.Errorf("%w: %w", fip.ErrNotFound, err)
	default:
		return err
	}
}

// classifyCreate maps a failed create call. Anything other than a credential
// problem counts as an allocation failure.
func classifyCreate(err error) error {
	if err == nil {
		return nil
	}
	if isHCloudErrorCode(err, hcloud.ErrorCodeUnauthorized, hcloud.ErrorCodeForbidden) {
		return classify(err)
	}
	return fmt.Errorf("%w: %w", fip.ErrAllocation, err)
}

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

// IsQuotaExceeded checks if an error indicates the project's floating IP
// limit is reached.
func IsQuotaExceeded(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeResourceLimitExceeded)
}
