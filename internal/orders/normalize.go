// Package orders collapses the vendor's inconsistent order shapes into the
// stable NormalizedOrder schema and paginates locally where the vendor has
// no pagination.
package orders

import "fcbox-relay/internal/models"

// Normalizer-injected values. The sentinels are the vendor app's own
// user-facing defaults and are relayed as-is.
const (
	StatusPending   = "1"
	StatusCompleted = "2"

	defaultCompanyName  = "未知快递"
	defaultCourierName  = "未知"
	defaultPickedDesc   = "已取件"
	defaultWaitingDesc  = "待取件"
	defaultTotalCustody = "0"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// NormalizeCompleted maps the completed-orders payload into the stable
// schema. The vendor puts the flat list under expressInfoDtos or, on some
// app versions, under data; a present expressInfoDtos field wins even when
// empty.
func NormalizeCompleted(data models.PageQueryData) []models.NormalizedOrder {
	records := data.ExpressInfoDtos
	if records == nil {
		records = data.Data
	}
	out := make([]models.NormalizedOrder, 0, len(records))
	for _, r := range records {
		clientMobile := r.ClientMobile
		if clientMobile == "" {
			clientMobile = r.PickerPhone
		}
		out = append(out, models.NormalizedOrder{
			ExpressID:       r.ExpressID.String(),
			CompanyName:     orDefault(r.CompanyName, defaultCompanyName),
			CourierName:     orDefault(r.CompanyName, defaultCourierName),
			PickupCode:      r.Code.String(),
			BoxNo:           r.BoxID.String(),
			BoxName:         r.CabinetCode,
			BoxLocation:     r.BoxLocation,
			Address:         r.Address,
			SendTm:          r.SendTm,
			PickTm:          r.PickTm,
			ClientMobile:    clientMobile,
			PickStatus:      r.PickStatus.String(),
			PickStatusDesc:  orDefault(r.PickStatusDesc, defaultPickedDesc),
			ExpressStatus:   StatusCompleted,
			PostID:          r.PostID.String(),
			CompanyLogoURL:  r.CompanyLogoURL,
			StaffMobile:     r.StaffMobile,
			TotalCustodyFee: orDefault(r.TotalCustodyFee.String(), defaultTotalCustody),
			CustodyFeeTag:   r.CustodyFeeInfo.CustodyFeeTag,
		})
	}
	return out
}

// FlattenPending flattens the cabinets -> boxes -> packages tree into one
// record per package, propagating the cabinet's code and address and the
// box's id and location onto every package. Missing intermediate arrays are
// empty, never an error.
func FlattenPending(cabinets []models.Cabinet) []models.NormalizedOrder {
	out := make([]models.NormalizedOrder, 0)
	for _, cab := range cabinets {
		for _, box := range cab.Boxes {
			for _, pkg := range box.Packages {
				out = append(out, models.NormalizedOrder{
					ExpressID:       pkg.ExpressID.String(),
					CompanyName:     orDefault(pkg.CompanyName, defaultCompanyName),
					CourierName:     orDefault(pkg.CompanyName, defaultCourierName),
					PickupCode:      pkg.Code.String(),
					BoxNo:           box.BoxID.String(),
					BoxName:         cab.CabinetCode,
					BoxLocation:     box.Location,
					Address:         cab.Address,
					SendTm:          pkg.SendTm,
					ClientMobile:    pkg.ClientMobile,
					PickStatus:      pkg.PickStatus.String(),
					PickStatusDesc:  orDefault(pkg.PickStatusDesc, defaultWaitingDesc),
					ExpressStatus:   StatusPending,
					PostID:          pkg.PostID.String(),
					CompanyLogoURL:  pkg.CompanyLogoURL,
					StaffMobile:     pkg.StaffMobile,
					TotalCustodyFee: orDefault(pkg.TotalCustodyFee.String(), defaultTotalCustody),
					CustodyFeeTag:   pkg.CustodyFeeInfo.CustodyFeeTag,
					BoxGlobalRow:    pkg.BoxGlobalRow.String(),
				})
			}
		}
	}
	return out
}

// Paginate slices a materialized order list by the given window. A window
// past the end of the data yields an empty slice.
func Paginate(list []models.NormalizedOrder, w models.PageWindow) []models.NormalizedOrder {
	low, high := w.Bounds(len(list))
	return list[low:high]
}
