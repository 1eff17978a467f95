package protocol

import (
	"testing"

	"fcbox-relay/internal/api"
)

func testOpenBoxRequest() api.OpenBoxRequest {
	return api.OpenBoxRequest{
		CabinetCode:    "CAB-001",
		BoxID:          "42",
		ExpressID:      "SF123",
		ClientMobile:   "13800138000",
		StaffMobile:    "13900139000",
		CompanyLogoURL: "https://example.com/logo.png",
		CompanyName:    "顺丰速运",
		ExpressType:    1,
		PostID:         "post-1",
		Code:           "8888",
		BoxGlobalRow:   "3",
		Address:        "小区南门",
	}
}

func TestReassembleKeyPermutation(t *testing.T) {
	fragments := [5]string{"frag1", "frag2", "frag3", "frag4", "frag5"}

	got, err := ReassembleKey("3,1,4,2,5", fragments)
	if err != nil {
		t.Fatalf("ReassembleKey failed: %v", err)
	}
	want := "frag3" + "frag1" + "frag4" + "frag2" + "frag5"
	if got != want {
		t.Errorf("reassembled key mismatch:\n got  %s\n want %s", got, want)
	}
}

func TestReassembleKeyIdentityOrder(t *testing.T) {
	fragments := [5]string{"A", "B", "C", "D", "E"}
	got, err := ReassembleKey("1,2,3,4,5", fragments)
	if err != nil {
		t.Fatalf("ReassembleKey failed: %v", err)
	}
	if got != "ABCDE" {
		t.Errorf("expected ABCDE, got %s", got)
	}
}

// The same fragment values must produce the same key string independent of
// the slots they were physically stored in, as long as keyOrder compensates.
func TestReassembleKeyStorageOrderInvariance(t *testing.T) {
	a, err := ReassembleKey("1,2,3,4,5", [5]string{"x", "y", "z", "u", "v"})
	if err != nil {
		t.Fatalf("ReassembleKey failed: %v", err)
	}
	b, err := ReassembleKey("5,4,3,2,1", [5]string{"v", "u", "z", "y", "x"})
	if err != nil {
		t.Fatalf("ReassembleKey failed: %v", err)
	}
	if a != b {
		t.Errorf("storage order leaked into result: %s vs %s", a, b)
	}
}

func TestReassembleKeyErrors(t *testing.T) {
	fragments := [5]string{"A", "B", "C", "D", "E"}
	cases := []struct {
		name     string
		keyOrder string
	}{
		{"too few indices", "1,2,3"},
		{"too many indices", "1,2,3,4,5,1"},
		{"non-numeric index", "1,2,x,4,5"},
		{"index zero", "0,1,2,3,4"},
		{"index out of range", "1,2,3,4,6"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReassembleKey(tc.keyOrder, fragments); err == nil {
				t.Errorf("expected error for keyOrder %q", tc.keyOrder)
			}
		})
	}
}

func TestOpenBoxBodyTemplate(t *testing.T) {
	body := OpenBoxBody(testOpenBoxRequest())

	// Template constants the vendor validates.
	if body["channel"] != "APP-ANDRIOD" {
		t.Errorf("unexpected channel: %v", body["channel"])
	}
	if body["pickType"] != "ANDROID_PICK_MOBILE_APP" {
		t.Errorf("unexpected pickType: %v", body["pickType"])
	}
	if body["cmdkType"] != "1" {
		t.Errorf("unexpected cmdkType: %v", body["cmdkType"])
	}

	// The box id feeds both the current-box and all-box fields.
	if body["localCurrBoxId"] != "42" || body["localAllBoxIdList"] != "42" {
		t.Errorf("box id not propagated: curr=%v all=%v", body["localCurrBoxId"], body["localAllBoxIdList"])
	}

	packages, ok := body["localRefusePackages"].([]map[string]any)
	if !ok || len(packages) != 1 {
		t.Fatalf("expected one refuse package, got %v", body["localRefusePackages"])
	}
	if packages[0]["expressId"] != "SF123" {
		t.Errorf("unexpected refuse package expressId: %v", packages[0]["expressId"])
	}
}
