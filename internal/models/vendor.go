package models

import "encoding/json"

// FlexString decodes a JSON string or number into a string. The vendor is
// inconsistent about numeric fields (ids and timestamps arrive as either),
// and the upstream login clients send timestamp both ways.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// Envelope is the generic fcbox response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ChallengeData is the payload of the secureCheckMobile response. The public
// key arrives split into five fragments whose concatenation order is given
// by KeyOrder (a comma-separated permutation of 1..5).
type ChallengeData struct {
	KeyOrder       string     `json:"keyOrder"`
	Key1           string     `json:"key1"`
	Key2           string     `json:"key2"`
	Key3           string     `json:"key3"`
	Key4           string     `json:"key4"`
	Key5           string     `json:"key5"`
	ClientIP       string     `json:"clientIp"`
	RequestCode    string     `json:"requestCode"`
	Timestamp      FlexString `json:"timestamp"`
	NeedSliderCode string     `json:"needSliderCode"`
}

// Fragments returns the key fragments in physical (key1..key5) order.
func (d ChallengeData) Fragments() [5]string {
	return [5]string{d.Key1, d.Key2, d.Key3, d.Key4, d.Key5}
}

// Challenge is the resolved challenge handed to the signing flow: the
// reconstructed public key plus the parameters that feed the pre-hash string.
type Challenge struct {
	PublicKey   string
	ClientIP    string
	RequestCode string
	Timestamp   string
	NeedSlider  bool
	Raw         json.RawMessage // full vendor body, echoed back on signing failures
}

// LoginResult carries the login response body together with the session
// token the vendor returns in the Authorization response header. A missing
// header is a valid-but-degraded outcome, not an error.
type LoginResult struct {
	Body          json.RawMessage
	Authorization string
}

// CustodyFeeInfo tolerates the vendor occasionally sending a non-object
// value (observed as an empty string) where an object is expected; anything
// that is not an object decodes to the zero value.
type CustodyFeeInfo struct {
	CustodyFeeTag string `json:"custodyFeeTag"`
}

func (c *CustodyFeeInfo) UnmarshalJSON(b []byte) error {
	var obj struct {
		CustodyFeeTag string `json:"custodyFeeTag"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		*c = CustodyFeeInfo{}
		return nil
	}
	c.CustodyFeeTag = obj.CustodyFeeTag
	return nil
}

// FlatOrderRecord is the completed-orders list item (pageQuery4App).
type FlatOrderRecord struct {
	ExpressID       FlexString     `json:"expressId"`
	CompanyName     string         `json:"companyName"`
	Code            FlexString     `json:"code"`
	BoxID           FlexString     `json:"boxId"`
	CabinetCode     string         `json:"cabinetCode"`
	BoxLocation     string         `json:"boxLocation"`
	Address         string         `json:"address"`
	SendTm          string         `json:"sendTm"`
	PickTm          string         `json:"pickTm"`
	ClientMobile    string         `json:"clientMobile"`
	PickerPhone     string         `json:"pickerPhone"`
	PickStatus      FlexString     `json:"pickStatus"`
	PickStatusDesc  string         `json:"pickStatusDesc"`
	PostID          FlexString     `json:"postId"`
	CompanyLogoURL  string         `json:"companyLogoUrl"`
	StaffMobile     string         `json:"staffMobile"`
	TotalCustodyFee FlexString     `json:"totalCustodyFee"`
	CustodyFeeInfo  CustodyFeeInfo `json:"custodyFeeInfo"`
}

// PageQueryData is the data member of the completed-orders response. The
// vendor puts the flat list under either expressInfoDtos or data; nil vs
// empty distinguishes an absent field from a present-but-empty one.
type PageQueryData struct {
	ExpressInfoDtos []FlatOrderRecord `json:"expressInfoDtos"`
	Data            []FlatOrderRecord `json:"data"`
	Total           int               `json:"total"`
}

// PageQueryResponse is the decoded completed-orders envelope.
type PageQueryResponse struct {
	Success bool
	Message string
	Data    *PageQueryData // nil when the vendor omitted data
}

// Cabinet, Box and PackageRecord form the nested pending-orders tree
// (queryWaitPick): cabinets -> boxes -> packages.
type Cabinet struct {
	CabinetCode string `json:"cabinetCode"`
	Address     string `json:"address"`
	Boxes       []Box  `json:"boxes"`
}

type Box struct {
	BoxID    FlexString      `json:"boxId"`
	Location string          `json:"location"`
	Packages []PackageRecord `json:"packages"`
}

type PackageRecord struct {
	ExpressID       FlexString     `json:"expressId"`
	CompanyName     string         `json:"companyName"`
	Code            FlexString     `json:"code"`
	SendTm          string         `json:"sendTm"`
	ClientMobile    string         `json:"clientMobile"`
	PickStatus      FlexString     `json:"pickStatus"`
	PickStatusDesc  string         `json:"pickStatusDesc"`
	PostID          FlexString     `json:"postId"`
	CompanyLogoURL  string         `json:"companyLogoUrl"`
	StaffMobile     string         `json:"staffMobile"`
	TotalCustodyFee FlexString     `json:"totalCustodyFee"`
	CustodyFeeInfo  CustodyFeeInfo `json:"custodyFeeInfo"`
	BoxGlobalRow    FlexString     `json:"boxGlobalRow"`
}

// WaitPickData is the data member of the pending-orders response.
type WaitPickData struct {
	Cabinets []Cabinet `json:"cabinets"`
}

// WaitPickResponse is the decoded pending-orders envelope.
type WaitPickResponse struct {
	Success bool
	Message string
	Data    *WaitPickData
}

// ActionResult is the decoded envelope for the cabinet-lookup and open-box
// operations, whose data payloads are relayed to the caller untouched.
type ActionResult struct {
	Success bool
	Message string
	Data    json.RawMessage
}
