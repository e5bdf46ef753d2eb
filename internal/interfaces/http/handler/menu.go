package handler

import (
	"github.com/gin-gonic/gin"

	navigationapp "github.com/callcrm/backend/internal/application/navigation"
)

// MenuHandler handles sidebar menu and submenu management endpoints.
type MenuHandler struct {
	BaseHandler
	menuService *navigationapp.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menuService *navigationapp.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Create adds a top-level menu.
func (h *MenuHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req navigationapp.CreateMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}

	menu, err := h.menuService.CreateMenu(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, menu)
}

// GetByID returns a single menu.
func (h *MenuHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	menu, err := h.menuService.GetMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, menu)
}

// List returns a paginated menu listing.
func (h *MenuHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var input navigationapp.ListMenusInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.menuService.ListMenus(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Tree returns the full menu hierarchy for the tenant.
func (h *MenuHandler) Tree(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	tree, err := h.menuService.GetTree(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// Update changes a menu's attributes.
func (h *MenuHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req navigationapp.UpdateMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}

	menu, err := h.menuService.UpdateMenu(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, menu)
}

// Activate makes a menu visible.
func (h *MenuHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	menu, err := h.menuService.ActivateMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, menu)
}

// Deactivate hides a menu.
func (h *MenuHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	menu, err := h.menuService.DeactivateMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, menu)
}

// Delete removes a menu with no submenus.
func (h *MenuHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenu(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// CreateSubMenu adds a submenu under a menu.
func (h *MenuHandler) CreateSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	menuID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req navigationapp.CreateSubMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subMenu, err := h.menuService.CreateSubMenu(c.Request.Context(), tenantID, menuID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, subMenu)
}

// ListSubMenus returns the submenus of a menu.
func (h *MenuHandler) ListSubMenus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	menuID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	subMenus, err := h.menuService.ListSubMenus(c.Request.Context(), tenantID, menuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subMenus)
}

// GetSubMenu returns a single submenu.
func (h *MenuHandler) GetSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "sub_id")
	if !ok {
		return
	}

	subMenu, err := h.menuService.GetSubMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subMenu)
}

// UpdateSubMenu changes a submenu's attributes.
func (h *MenuHandler) UpdateSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "sub_id")
	if !ok {
		return
	}

	var req navigationapp.UpdateSubMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subMenu, err := h.menuService.UpdateSubMenu(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subMenu)
}

// ActivateSubMenu makes a submenu visible.
func (h *MenuHandler) ActivateSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "sub_id")
	if !ok {
		return
	}

	subMenu, err := h.menuService.ActivateSubMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subMenu)
}

// DeactivateSubMenu hides a submenu.
func (h *MenuHandler) DeactivateSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "sub_id")
	if !ok {
		return
	}

	subMenu, err := h.menuService.DeactivateSubMenu(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subMenu)
}

// DeleteSubMenu removes a submenu.
func (h *MenuHandler) DeleteSubMenu(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	id, ok := h.parseIDParam(c, "sub_id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteSubMenu(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}
