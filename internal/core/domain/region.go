package domain

import "fmt"

// Region identifies a Zoho deployment zone. The region decides which
// accounts domain handles OAuth traffic and which API domain handles
// CRM resource traffic; both always derive from the same region.
type Region string

const (
	RegionEU Region = "eu"
	RegionUS Region = "com"
	RegionIN Region = "in"
	RegionAU Region = "com.au"
	RegionJP Region = "jp"
	RegionCN Region = "com.cn"
)

// DefaultRegion is used when a callback does not report a location.
const DefaultRegion = RegionEU

// ParseRegion validates a location code reported by the provider.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionEU, RegionUS, RegionIN, RegionAU, RegionJP, RegionCN:
		return Region(s), nil
	case "":
		return DefaultRegion, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
}

// AccountsDomain returns the OAuth/token endpoint base URL for the region.
func (r Region) AccountsDomain() string {
	return "https://accounts.zoho." + string(r)
}

// APIDomain returns the CRM resource endpoint base URL for the region.
func (r Region) APIDomain() string {
	return "https://www.zohoapis." + string(r)
}
