package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/driftlab/device-checkout/internal/device"
	"github.com/driftlab/device-checkout/internal/owner"
	"github.com/driftlab/device-checkout/internal/pool"
)

const failedParseForm = "Failed to parse form data"

// handleIndex redirects to the device board.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/devices", http.StatusSeeOther)
}

// deviceBoardData is the template payload for the device board.
type deviceBoardData struct {
	Flash        *Flash
	Pools        []pool.Pool
	SelectedPool int64
	Devices      []device.Device
}

// handleDeviceBoard renders the claim/return board for one pool.
func (s *Server) handleDeviceBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	poolID := pool.DefaultPoolID
	if poolIDStr := r.URL.Query().Get("pool_id"); poolIDStr != "" {
		parsed, err := strconv.ParseInt(poolIDStr, 10, 64)
		if err == nil {
			poolID = parsed
		}
	}

	pools, err := s.pools.List(ctx)
	if err != nil {
		writeInternalError(w, "failed to list pools")
		return
	}

	devices, err := s.devices.ListByPool(ctx, poolID)
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}

	s.render(w, "devices.html", deviceBoardData{
		Flash:        s.popFlash(w, r),
		Pools:        pools,
		SelectedPool: poolID,
		Devices:      devices,
	})
}

// handleToggleDevice flips a device between available and reserved.
// The form posts the status the board last showed; the engine's conditional
// update rejects the toggle if someone else got there first.
func (s *Server) handleToggleDevice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/devices", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/devices", flashError, failedParseForm)
		return
	}

	prior := device.Status(r.PostFormValue("reservation_status"))
	if !prior.Valid() {
		s.flashAndRedirect(w, r, "/devices", flashError, failedParseForm)
		return
	}
	next := device.StatusReserved
	if prior == device.StatusReserved {
		next = device.StatusAvailable
	}

	err = s.engine.Toggle(r.Context(), id,
		r.PostFormValue("device_owner"),
		r.PostFormValue("comments"),
		next, prior,
	)
	if err != nil {
		s.flashAndRedirect(w, r, "/devices", flashError, flashMessage(err, "Failed to update device"))
		return
	}

	s.flashAndRedirect(w, r, "/devices", flashSuccess, "Successfully updated device")
}

// editDevicesData is the template payload for the device admin page.
type editDevicesData struct {
	Flash   *Flash
	Pools   []pool.Pool
	Devices []device.Device
}

// handleEditDevicesPage renders the device admin page.
func (s *Server) handleEditDevicesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pools, err := s.pools.List(ctx)
	if err != nil {
		writeInternalError(w, "failed to list pools")
		return
	}
	devices, err := s.devices.List(ctx)
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}

	s.render(w, "edit_devices.html", editDevicesData{
		Flash:   s.popFlash(w, r),
		Pools:   pools,
		Devices: devices,
	})
}

// handleAddDevice creates a device from the admin form.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, failedParseForm)
		return
	}

	d := device.Device{
		DeviceName: strings.TrimSpace(r.PostFormValue("device_name")),
		DeviceURL:  strings.TrimSpace(r.PostFormValue("device_url")),
		PoolID:     formPoolID(r),
	}

	if err := s.devices.Create(r.Context(), &d); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, flashMessage(err, "Failed to add device"))
		return
	}

	s.flashAndRedirect(w, r, "/editDevices", flashSuccess, "Successfully added device")
}

// handleEditDevice updates a device's name, url, and pool.
func (s *Server) handleEditDevice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, failedParseForm)
		return
	}

	d := device.Device{
		ID:         id,
		DeviceName: strings.TrimSpace(r.PostFormValue("device_name")),
		DeviceURL:  strings.TrimSpace(r.PostFormValue("device_url")),
		PoolID:     formPoolID(r),
	}

	if err := s.devices.UpdateDetails(r.Context(), &d); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, flashMessage(err, "Failed to update device"))
		return
	}

	s.flashAndRedirect(w, r, "/editDevices", flashSuccess, "Successfully updated device")
}

// handleDeleteDevice removes a device.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, failedParseForm)
		return
	}

	if err := s.devices.Delete(r.Context(), id); err != nil {
		s.flashAndRedirect(w, r, "/editDevices", flashError, "Failed to delete device")
		return
	}

	s.flashAndRedirect(w, r, "/editDevices", flashSuccess, "Successfully deleted device")
}

// editPoolsData is the template payload for the pool admin page.
type editPoolsData struct {
	Flash *Flash
	Pools []pool.Pool
}

// handleEditPoolsPage renders the pool admin page.
func (s *Server) handleEditPoolsPage(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list pools")
		return
	}

	s.render(w, "edit_pools.html", editPoolsData{
		Flash: s.popFlash(w, r),
		Pools: pools,
	})
}

// handleAddPool creates a pool from the admin form.
func (s *Server) handleAddPool(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, failedParseForm)
		return
	}

	p := pool.Pool{
		PoolName:    strings.TrimSpace(r.PostFormValue("pool_name")),
		Description: optionalForm(r, "description"),
	}

	if err := s.pools.Create(r.Context(), &p); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, flashMessage(err, "Failed to add pool"))
		return
	}

	s.flashAndRedirect(w, r, "/editPools", flashSuccess, "Successfully added pool")
}

// handleEditPool updates a pool's name and description.
func (s *Server) handleEditPool(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, failedParseForm)
		return
	}

	p := pool.Pool{
		ID:          id,
		PoolName:    strings.TrimSpace(r.PostFormValue("pool_name")),
		Description: optionalForm(r, "description"),
	}

	if err := s.pools.Update(r.Context(), &p); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, flashMessage(err, "Failed to update pool"))
		return
	}

	s.flashAndRedirect(w, r, "/editPools", flashSuccess, "Successfully updated pool")
}

// handleDeletePool removes a pool. The repository rejects deleting the
// Default Pool or a pool that still holds devices.
func (s *Server) handleDeletePool(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, failedParseForm)
		return
	}

	if err := s.pools.Delete(r.Context(), id); err != nil {
		s.flashAndRedirect(w, r, "/editPools", flashError, flashMessage(err, "Failed to delete pool"))
		return
	}

	s.flashAndRedirect(w, r, "/editPools", flashSuccess, "Successfully deleted pool")
}

// editCustomOwnersData is the template payload for the custom owner admin page.
type editCustomOwnersData struct {
	Flash  *Flash
	Owners []owner.CustomOwner
}

// handleEditCustomOwnersPage renders the custom owner admin page.
func (s *Server) handleEditCustomOwnersPage(w http.ResponseWriter, r *http.Request) {
	owners, err := s.owners.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list custom owners")
		return
	}

	s.render(w, "edit_custom_owners.html", editCustomOwnersData{
		Flash:  s.popFlash(w, r),
		Owners: owners,
	})
}

// handleAddCustomOwner creates a custom owner from the admin form.
func (s *Server) handleAddCustomOwner(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, failedParseForm)
		return
	}

	o := owner.CustomOwner{
		CustomOwnerName: r.PostFormValue("custom_owner_name"),
		Recipient:       r.PostFormValue("recipient"),
		Description:     optionalForm(r, "description"),
	}

	if err := s.owners.Create(r.Context(), &o); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, flashMessage(err, "Failed to add custom_owner"))
		return
	}

	s.flashAndRedirect(w, r, "/editCustomOwners", flashSuccess, "Successfully added custom_owner")
}

// handleEditCustomOwner updates a custom owner.
func (s *Server) handleEditCustomOwner(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, failedParseForm)
		return
	}

	o := owner.CustomOwner{
		ID:              id,
		CustomOwnerName: r.PostFormValue("custom_owner_name"),
		Recipient:       r.PostFormValue("recipient"),
		Description:     optionalForm(r, "description"),
	}

	if err := s.owners.Update(r.Context(), &o); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, flashMessage(err, "Failed to update custom_owner"))
		return
	}

	s.flashAndRedirect(w, r, "/editCustomOwners", flashSuccess, "Successfully updated custom_owner")
}

// handleDeleteCustomOwner removes a custom owner. The repository rejects
// deleting one that still holds reserved devices.
func (s *Server) handleDeleteCustomOwner(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, failedParseForm)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, failedParseForm)
		return
	}

	if err := s.owners.Delete(r.Context(), id); err != nil {
		s.flashAndRedirect(w, r, "/editCustomOwners", flashError, flashMessage(err, "Failed to delete custom_owner"))
		return
	}

	s.flashAndRedirect(w, r, "/editCustomOwners", flashSuccess, "Successfully deleted custom_owner")
}

// formPoolID parses the pool_id form field, defaulting to the Default Pool.
func formPoolID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PostFormValue("pool_id"), 10, 64)
	if err != nil || id < 1 {
		return pool.DefaultPoolID
	}
	return id
}

// optionalForm returns a pointer to a trimmed form value, or nil when empty.
func optionalForm(r *http.Request, field string) *string {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return nil
	}
	return &v
}
