package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// EntryHandler handles HTTP requests for vehicle-condition entries.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// Submit handles POST /v1/entries: one multipart submission carrying the
// entry fields plus one file part per required photo slot and any number of
// optional photos.
//
// @Summary      Submit a vehicle-condition entry
// @Tags         entries
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        vehicle_id   formData  string  true   "Vehicle id"
// @Param        mileage      formData  integer true   "Odometer reading"
// @Param        notes        formData  string  false  "Free-form damage notes"
// @Param        front_left   formData  file    true   "Front-left photo"
// @Param        front_right  formData  file    true   "Front-right photo"
// @Param        rear_left    formData  file    true   "Rear-left photo"
// @Param        rear_right   formData  file    true   "Rear-right photo"
// @Param        optional     formData  file    false  "Additional photos"
// @Success      201  {object}  submitEntryResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/entries [post]
func (h *EntryHandler) Submit(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}

	input := ports.SubmitEntryInput{
		UserID:    claims.UserID,
		VehicleID: c.FormValue("vehicle_id"),
		Notes:     c.FormValue("notes"),
		Mileage:   -1,
	}
	if raw := c.FormValue("mileage"); raw != "" {
		mileage, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "mileage must be an integer")
		}
		input.Mileage = mileage
	}

	var open []multipart.File
	defer func() {
		for _, f := range open {
			_ = f.Close()
		}
	}()

	for _, slot := range domain.RequiredPhotoSlots {
		headers := form.File[string(slot)]
		if len(headers) == 0 {
			continue
		}
		upload, file, err := openUpload(headers[0], slot)
		if err != nil {
			return err
		}
		open = append(open, file)
		input.Required = append(input.Required, upload)
	}

	for _, header := range form.File["optional"] {
		upload, file, err := openUpload(header, domain.PhotoOptional)
		if err != nil {
			return err
		}
		open = append(open, file)
		input.Optional = append(input.Optional, upload)
	}

	result, err := h.service.Submit(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSubmitResponse(result))
}

// List handles GET /v1/admin/entries with filtering, sorting, and pagination.
//
// @Summary      List entries (admin)
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id   query  string  false  "Driver id filter (repeatable)"
// @Param        vehicle_id  query  string  false  "Vehicle id filter (repeatable)"
// @Param        date_from   query  string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to     query  string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        status      query  string  false  "Driver status filter (repeatable; default active, 'all' disables)"
// @Param        sort        query  string  false  "Sort field: created_at, mileage, driver_name"
// @Param        order       query  string  false  "asc or desc (default desc)"
// @Param        page        query  int     false  "1-based page (default 1)"
// @Param        limit       query  int     false  "Rows per page (default 20, max 100)"
// @Success      200  {object}  entryListResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/entries [get]
func (h *EntryHandler) List(c echo.Context) error {
	input, err := parseAdminListQuery(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListAdmin(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entryListResponse{
		Items:      toEntryResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Recent handles GET /v1/entries/recent: the caller's last five submissions.
//
// @Summary      Recent entries for the current driver
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recentEntriesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/entries/recent [get]
func (h *EntryHandler) Recent(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	records, err := h.service.RecentForUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, recentEntriesResponse{Items: toEntryResponses(records)})
}

func openUpload(header *multipart.FileHeader, slot domain.PhotoType) (ports.PhotoUpload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return ports.PhotoUpload{}, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable file part: "+header.Filename)
	}
	return ports.PhotoUpload{
		Slot:        slot,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, file, nil
}

func parseAdminListQuery(c echo.Context) (ports.AdminListInput, error) {
	params := c.QueryParams()

	input := ports.AdminListInput{
		DriverIDs:  params["driver_id"],
		VehicleIDs: params["vehicle_id"],
		SortField:  c.QueryParam("sort"),
		SortAsc:    c.QueryParam("order") == "asc",
	}

	var err error
	if input.DateFrom, err = parseDate(c.QueryParam("date_from")); err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
	}
	if input.DateTo, err = parseDate(c.QueryParam("date_to")); err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
	}
	if input.Page, err = parsePositiveInt(c.QueryParam("page"), 1); err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
	}
	if input.Limit, err = parsePositiveInt(c.QueryParam("limit"), 0); err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
	}

	if input.Statuses, err = parseStatusFilter(params["status"]); err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return input, nil
}

// parseStatusFilter resolves the driver-status filter. Absent means the
// default view of active drivers; the sentinel "all" disables the filter.
func parseStatusFilter(values []string) ([]domain.UserStatus, error) {
	if len(values) == 0 {
		return []domain.UserStatus{domain.UserActive}, nil
	}

	statuses := make([]domain.UserStatus, 0, len(values))
	for _, v := range values {
		switch v {
		case "all":
			return nil, nil
		case string(domain.UserActive):
			statuses = append(statuses, domain.UserActive)
		case string(domain.UserInactive):
			statuses = append(statuses, domain.UserInactive)
		default:
			return nil, echo.NewHTTPError(http.StatusBadRequest, "status must be active, inactive, or all")
		}
	}
	return statuses, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func parsePositiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
