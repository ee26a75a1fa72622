package controllers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"myanmar-travel/models"
	"myanmar-travel/services"
	"myanmar-travel/utils"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Admin     *services.AdminService
	Users     *services.UserService
	Schedules *services.ScheduleService
	Seeder    *services.SeedService
}

func NewAdminController(admin *services.AdminService, users *services.UserService, schedules *services.ScheduleService, seeder *services.SeedService) *AdminController {
	return &AdminController{Admin: admin, Users: users, Schedules: schedules, Seeder: seeder}
}

type rolePayload struct {
	Role string `json:"role" binding:"required"`
}

type bulkDeletePayload struct {
	IDs []uint `json:"ids" binding:"required"`
}

type generatePayload struct {
	StartDate string   `json:"start_date"`
	Days      int      `json:"days"`
	Overwrite bool     `json:"overwrite"`
	Types     []string `json:"types"`
}

type seedPayload struct {
	Reset bool `json:"reset"`
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		badRequest(c, "JSON body required")
		return nil, false
	}
	return body, true
}

// GET /api/admin/resources
func (ctrl *AdminController) Resources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": services.AdminResources()})
}

// GET /api/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	d, err := ctrl.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/admin/r/:resource?q=&page=&page_size=
func (ctrl *AdminController) List(c *gin.Context) {
	page, err := ctrl.Admin.List(c.Request.Context(), c.Param("resource"), c.Query("q"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/admin/r/:resource/:id
func (ctrl *AdminController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := ctrl.Admin.Get(c.Request.Context(), c.Param("resource"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /api/admin/r/:resource
func (ctrl *AdminController) Create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	item, err := ctrl.Admin.Create(c.Request.Context(), c.Param("resource"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("✅ Admin created %s", c.Param("resource"))
	c.JSON(http.StatusCreated, gin.H{"message": "Created", "data": item})
}

// PATCH /api/admin/r/:resource/:id merges the body into the stored row.
func (ctrl *AdminController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	item, err := ctrl.Admin.Update(c.Request.Context(), c.Param("resource"), id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated", "data": item})
}

// DELETE /api/admin/r/:resource/:id
func (ctrl *AdminController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Admin.Delete(c.Request.Context(), c.Param("resource"), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// POST /api/admin/r/:resource/bulk-delete
func (ctrl *AdminController) BulkDelete(c *gin.Context) {
	var p bulkDeletePayload
	if err := c.ShouldBindJSON(&p); err != nil || len(p.IDs) == 0 {
		badRequest(c, "ids required")
		return
	}
	n, err := ctrl.Admin.BulkDelete(c.Request.Context(), c.Param("resource"), p.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "deleted": n})
}

// GET /api/admin/users?q=
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.Users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PATCH /api/admin/users/:id/role
func (ctrl *AdminController) SetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p rolePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "role required")
		return
	}
	user, err := ctrl.Users.SetRole(c.Request.Context(), id, strings.ToLower(strings.TrimSpace(p.Role)))
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("✅ User %d role set to %s", user.ID, user.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "data": user})
}

// POST /api/admin/schedules/generate
func (ctrl *AdminController) GenerateSchedules(c *gin.Context) {
	var p generatePayload
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	opts := services.ScheduleOptions{Days: p.Days, Overwrite: p.Overwrite}
	if p.Days == 0 {
		opts.Days = 30
	}
	if strings.TrimSpace(p.StartDate) != "" {
		d, err := utils.ParseDate(p.StartDate)
		if err != nil {
			utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidDate", "start_date must be YYYY-MM-DD")
			return
		}
		opts.Start = d
	}
	for _, raw := range p.Types {
		tt, ok := models.ParseTransportType(raw)
		if !ok {
			utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidTransportType", "types must be flight, bus or car")
			return
		}
		opts.Types = append(opts.Types, tt)
	}
	res, err := ctrl.Schedules.Generate(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/admin/seed
func (ctrl *AdminController) Seed(c *gin.Context) {
	var p seedPayload
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	res, err := ctrl.Seeder.Run(c.Request.Context(), p.Reset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
