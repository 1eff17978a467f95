package models

// NormalizedOrder is the stable order schema returned to clients regardless
// of which vendor shape produced it. Every field has a defined default so a
// partial vendor record never produces a missing key.
type NormalizedOrder struct {
	ExpressID       string `json:"expressId"`
	CompanyName     string `json:"companyName"`
	CourierName     string `json:"courierName"`
	PickupCode      string `json:"pickupCode"`
	BoxNo           string `json:"boxNo"`
	BoxName         string `json:"boxName"`
	BoxLocation     string `json:"boxLocation"`
	Address         string `json:"address"`
	SendTm          string `json:"sendTm"`
	PickTm          string `json:"pickTm,omitempty"`
	ClientMobile    string `json:"clientMobile"`
	PickStatus      string `json:"pickStatus"`
	PickStatusDesc  string `json:"pickStatusDesc"`
	ExpressStatus   string `json:"expressStatus"` // "1" pending, "2" completed
	PostID          string `json:"postId"`
	CompanyLogoURL  string `json:"companyLogoUrl"`
	StaffMobile     string `json:"staffMobile"`
	TotalCustodyFee string `json:"totalCustodyFee"`
	CustodyFeeTag   string `json:"custodyFeeTag"`
	BoxGlobalRow    string `json:"boxGlobalRow,omitempty"`
}

// PageWindow is a 1-indexed pagination window applied locally over order
// lists the vendor does not paginate.
type PageWindow struct {
	Page     int
	PageSize int
}

// NewPageWindow clamps page and pageSize to their minimum of 1.
func NewPageWindow(page, pageSize int) PageWindow {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return PageWindow{Page: page, PageSize: pageSize}
}

// Bounds returns the half-open slice interval [low, high) for a list of n
// elements. A window past the end of the data yields low == high == n.
func (w PageWindow) Bounds(n int) (int, int) {
	page, size := w.Page, w.PageSize
	if page < 1 {
		page = 1
	}
	// Any window starting past the end is the empty tail. Checked via
	// division so (page-1)*size cannot overflow on hostile page values.
	if size < 1 || page-1 > n/size {
		return n, n
	}
	low := (page - 1) * size
	high := low + size
	if high > n {
		high = n
	}
	return low, high
}
