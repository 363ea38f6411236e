package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/service"
	"bloodconnect/internal/donor/store"
	screeningStore "bloodconnect/internal/screening/store"
	"bloodconnect/pkg/platform/pagination"
	"bloodconnect/pkg/platform/tx"
	"bloodconnect/pkg/requestcontext"
	"bloodconnect/pkg/testutil"
)

// requirePrincipal stands in for the JWT middleware.
func requirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestcontext.CurrentPrincipal(r.Context()); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type DonorHandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestDonorHandlerSuite(t *testing.T) {
	suite.Run(t, new(DonorHandlerSuite))
}

func (s *DonorHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	donors := store.NewInMemory()
	allocator, err := coupon.NewAllocator(donors, tx.NewMemoryRunner(), coupon.WithLogger(logger))
	s.Require().NoError(err)
	svc := service.New(donors, screeningStore.NewInMemory(), allocator, service.WithLogger(logger))

	r := chi.NewRouter()
	New(svc, logger, requirePrincipal).Register(r)
	s.router = r
}

func registerBody(nationalID string) map[string]any {
	return map[string]any{
		"fullName":   "Bilal Ahmed",
		"age":        34,
		"gender":     "Male",
		"bloodGroup": "b+",
		"phone":      "03211234567",
		"email":      "bilal@example.com",
		"nationalId": nationalID,
		"address":    map[string]string{"city": "Lahore", "country": "Pakistan"},
	}
}

func (s *DonorHandlerSuite) register(nationalID string) *DonorResponse {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/donors", registerBody(nationalID)))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[DonorResponse](s.T(), rr)
}

func (s *DonorHandlerSuite) TestRegisterIsPublicAndIssuesCodes() {
	first := s.register("35201-111")
	second := s.register("35201-222")

	s.Equal("0001", first.CouponCode)
	s.Equal("0002", second.CouponCode)
	s.Equal("male", first.Gender)
	s.Require().NotNil(first.BloodGroup)
	s.Equal("B+", *first.BloodGroup)
	s.Nil(first.LastDonationDate)
}

func (s *DonorHandlerSuite) TestRegisterDuplicateNationalIDIsConflict() {
	s.register("dup")
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/donors", registerBody("dup")))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *DonorHandlerSuite) TestRegisterValidation() {
	body := registerBody("")
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/donors", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")

	body = registerBody("x-1")
	body["gender"] = "robot"
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/donors", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/donors", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *DonorHandlerSuite) TestNextCouponPreview() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/next-coupon", nil))
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("0001", testutil.UnmarshalResponse[NextCouponResponse](s.T(), rr).CouponCode)

	s.register("n-1")
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/next-coupon", nil))
	s.Equal("0002", testutil.UnmarshalResponse[NextCouponResponse](s.T(), rr).CouponCode)
}

func (s *DonorHandlerSuite) TestCouponLookup() {
	d := s.register("c-1")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/coupon/0001", nil))
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal(d.DonorID, testutil.UnmarshalResponse[DonorResponse](s.T(), rr).DonorID)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/coupon/0404", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *DonorHandlerSuite) TestStaffRoutesRequireAuth() {
	d := s.register("a-1")
	for _, path := range []string{"/api/donors", "/api/donors/" + d.DonorID, "/api/donors/" + d.DonorID + "/screenings"} {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil))
		s.Equal(http.StatusUnauthorized, rr.Code, path)
	}
}

func (s *DonorHandlerSuite) TestListGetUpdate() {
	for _, nid := range []string{"l-1", "l-2", "l-3"} {
		s.register(nid)
	}

	req, _ := testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors?page=1&pageSize=2", nil))
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)
	page := testutil.UnmarshalResponse[pagination.Response[DonorResponse]](s.T(), rr)
	s.Equal(3, page.TotalCount)
	s.Equal(2, page.TotalPages)
	s.True(page.HasNextPage)
	s.False(page.HasPreviousPage)
	s.Require().Len(page.Data, 2)

	target := page.Data[0]
	update := registerBody("ignored")
	update["fullName"] = "Bilal A."
	req, _ = testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/donors/"+target.DonorID, update))
	rr = testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	updated := testutil.UnmarshalResponse[DonorResponse](s.T(), rr)
	s.Equal("Bilal A.", updated.FullName)
	s.Equal(target.CouponCode, updated.CouponCode)
	s.Equal(target.NationalID, updated.NationalID)

	req, _ = testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/"+target.DonorID+"/screenings", nil))
	rr = testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq("[]", rr.Body.String())
}

func (s *DonorHandlerSuite) TestGetUnknownAndMalformedIDs() {
	req, _ := testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/"+uuid.NewString(), nil))
	testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusNotFound, "not_found")

	req, _ = testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors/not-a-uuid", nil))
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)

	req, _ = testutil.AsStaff(testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/donors?pageSize=0", nil))
	testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "validation_error")
}

func TestRegisterRequestNormalizes(t *testing.T) {
	bg := " o- "
	req := RegisterDonorRequest{
		ProfileRequest: ProfileRequest{FullName: "  Sana ", Phone: " 0300 ", Gender: " FEMALE ", BloodGroup: &bg, Age: 22},
		NationalID:     " 42101 ",
	}
	require.NoError(t, req.Validate())
	cmd := req.ToCommand()
	assert.Equal(t, "42101", cmd.NationalID)
	assert.Equal(t, "Sana", cmd.Profile.FullName)
	assert.Equal(t, "female", string(cmd.Profile.Gender))
	require.NotNil(t, cmd.Profile.BloodGroup)
	assert.Equal(t, "O-", string(*cmd.Profile.BloodGroup))
}
