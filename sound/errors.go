package sound

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAsset = errors.New("unknown audio asset")
	ErrNotReady     = errors.New("audio asset not ready")
)

// AssetLoadError reports a single asset that could not be fetched or decoded.
type AssetLoadError struct {
	Name   string
	Source string
	Err    error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading audio %q from %s: %v", e.Name, e.Source, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// UnknownAssetError is returned when a name is not in the catalog.
type UnknownAssetError struct {
	Name string
}

func (e *UnknownAssetError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownAsset, e.Name)
}

func (e *UnknownAssetError) Is(target error) bool { return target == ErrUnknownAsset }

// NotReadyError is returned when playback is requested for an asset that has
// not finished loading, or failed to load.
type NotReadyError struct {
	Name  string
	State LoadState
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%v: %q is %s", ErrNotReady, e.Name, e.State)
}

func (e *NotReadyError) Is(target error) bool { return target == ErrNotReady }

// LoadError is the rejection value of the readiness signal. Failed lists the
// asset names in catalog order; Err combines their AssetLoadErrors.
type LoadError struct {
	Failed []string
	Total  int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%d of %d audio assets failed to load [%s]: %v",
		len(e.Failed), e.Total, strings.Join(e.Failed, ", "), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Partial reports whether at least one asset loaded.
func (e *LoadError) Partial() bool {
	return len(e.Failed) < e.Total
}
