package handler

import (
	"time"

	"bloodconnect/internal/donor/models"
)

const dateLayout = "2006-01-02"

type DonorResponse struct {
	DonorID            string         `json:"donorId"`
	FullName           string         `json:"fullName"`
	FatherHusbandName  *string        `json:"fatherHusbandName"`
	Age                int            `json:"age"`
	Gender             string         `json:"gender"`
	BloodGroup         *string        `json:"bloodGroup"`
	Phone              string         `json:"phone"`
	Email              string         `json:"email"`
	NationalID         string         `json:"nationalId"`
	District           *string        `json:"district"`
	Address            models.Address `json:"address"`
	TimesDonatedBefore *int           `json:"timesDonatedBefore"`
	SourceOfInfo       *string        `json:"sourceOfInfo"`
	CouponCode         string         `json:"couponCode"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	LastDonationDate   *string        `json:"lastDonationDate"`
}

type NextCouponResponse struct {
	CouponCode string `json:"couponCode"`
}

func toDonorResponse(d *models.Donor) DonorResponse {
	resp := DonorResponse{
		DonorID:            d.ID.String(),
		FullName:           d.FullName,
		FatherHusbandName:  d.FatherHusbandName,
		Age:                d.Age,
		Gender:             string(d.Gender),
		Phone:              d.Phone,
		Email:              d.Email,
		NationalID:         d.NationalID,
		District:           d.District,
		Address:            d.Address,
		TimesDonatedBefore: d.TimesDonatedBefore,
		SourceOfInfo:       d.SourceOfInfo,
		CouponCode:         d.CouponCode,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.BloodGroup != nil {
		bg := string(*d.BloodGroup)
		resp.BloodGroup = &bg
	}
	if d.LastDonationDate != nil {
		day := d.LastDonationDate.Format(dateLayout)
		resp.LastDonationDate = &day
	}
	return resp
}
