package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	accountingapp "github.com/ledgerdesk/backend/internal/application/accounting"
	"github.com/ledgerdesk/backend/internal/domain/accounting"
)

const accountsSegment = "accounts"

// ChartOfAccountsHandler serves the group levels and accounts of the
// chart of accounts. Routes take the level as a path segment.
type ChartOfAccountsHandler struct {
	BaseHandler
	groups   *accountingapp.GroupService
	accounts *accountingapp.AccountService
}

// NewChartOfAccountsHandler creates a new ChartOfAccountsHandler
func NewChartOfAccountsHandler(groups *accountingapp.GroupService, accounts *accountingapp.AccountService) *ChartOfAccountsHandler {
	return &ChartOfAccountsHandler{groups: groups, accounts: accounts}
}

// CreateGroupBody is the body of a group create request. Element, sub
// element and detailed groups name their parent with the typed id field
// of the level above, or with parent_id. Parent ids are also accepted in
// camelCase (mainGroupId, elementGroupId, subElementGroupId, parentId).
type CreateGroupBody struct {
	Name              string     `json:"name" binding:"required,min=1,max=200" example:"Current Assets"`
	Code              string     `json:"code" binding:"required,min=1,max=50" example:"1100"`
	Description       string     `json:"description" binding:"max=2000"`
	ParentID          *uuid.UUID `json:"parent_id"`
	MainGroupID       *uuid.UUID `json:"main_group_id"`
	ElementGroupID    *uuid.UUID `json:"element_group_id"`
	SubElementGroupID *uuid.UUID `json:"sub_element_group_id"`
}

// UnmarshalJSON decodes the body and folds the camelCase parent ids into
// the snake_case fields
func (b *CreateGroupBody) UnmarshalJSON(data []byte) error {
	type plain CreateGroupBody
	var wire struct {
		plain
		ParentIDCamel          *uuid.UUID `json:"parentId"`
		MainGroupIDCamel       *uuid.UUID `json:"mainGroupId"`
		ElementGroupIDCamel    *uuid.UUID `json:"elementGroupId"`
		SubElementGroupIDCamel *uuid.UUID `json:"subElementGroupId"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*b = CreateGroupBody(wire.plain)
	b.ParentID = firstID(b.ParentID, wire.ParentIDCamel)
	b.MainGroupID = firstID(b.MainGroupID, wire.MainGroupIDCamel)
	b.ElementGroupID = firstID(b.ElementGroupID, wire.ElementGroupIDCamel)
	b.SubElementGroupID = firstID(b.SubElementGroupID, wire.SubElementGroupIDCamel)
	return nil
}

func firstID(ids ...*uuid.UUID) *uuid.UUID {
	for _, id := range ids {
		if id != nil {
			return id
		}
	}
	return nil
}

func (b CreateGroupBody) parentFor(level accounting.Level) *uuid.UUID {
	var typed *uuid.UUID
	switch level {
	case accounting.LevelElement:
		typed = b.MainGroupID
	case accounting.LevelSubElement:
		typed = b.ElementGroupID
	case accounting.LevelDetailed:
		typed = b.SubElementGroupID
	}
	if typed != nil {
		return typed
	}
	return b.ParentID
}

// listQuery carries the query parameters shared by group and account listings
type listQuery struct {
	ParentID        string `form:"parent_id"`
	DetailedGroupID string `form:"detailed_group_id"`
	Search          string `form:"search"`
	IsActive        *bool  `form:"is_active"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy          string `form:"sort_by"`
	SortDesc        bool   `form:"sort_desc"`
}

// level resolves the {level} segment; "accounts" reports isAccount
func (h *ChartOfAccountsHandler) level(c *gin.Context) (level accounting.Level, isAccount, ok bool) {
	segment := c.Param("level")
	if segment == accountsSegment {
		return "", true, true
	}
	level, ok = accountingapp.ParseLevelSegment(segment)
	if !ok {
		h.HandleError(c, accounting.NewInvalidLevelError(segment))
		return "", false, false
	}
	return level, false, true
}

// Create godoc
// @ID           createChartOfAccountsEntry
// @Summary      Create a group or an account
// @Description  level is one of main-groups, element-groups, sub-element-groups, detailed-groups, accounts. Accounts take an accountingapp.CreateAccountRequest body.
// @Tags         chart-of-accounts
// @Accept       json
// @Produce      json
// @Param        level   path string          true "Level segment"
// @Param        request body CreateGroupBody true "Group"
// @Success      201 {object} APIResponse[accountingapp.GroupResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "PARENT_NOT_FOUND"
// @Failure      409 {object} ErrorResponse "DUPLICATE_CODE"
// @Security     BearerAuth
// @Router       /chart-of-accounts/{level} [post]
func (h *ChartOfAccountsHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	level, isAccount, ok := h.level(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if isAccount {
		var req accountingapp.CreateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
		req.CreatedBy = userID(c)
		account, err := h.accounts.CreateAccount(ctx, tenantID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, account)
		return
	}

	var body CreateGroupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BindError(c, err)
		return
	}
	req := accountingapp.CreateGroupRequest{
		Name:        body.Name,
		Code:        body.Code,
		Description: body.Description,
		ParentID:    body.parentFor(level),
		CreatedBy:   userID(c),
	}
	group, err := h.groups.CreateGroup(ctx, tenantID, level, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// List godoc
// @ID           listChartOfAccountsEntries
// @Summary      List groups of one level, or accounts
// @Tags         chart-of-accounts
// @Produce      json
// @Param        level             path  string true  "Level segment"
// @Param        parent_id         query string false "Parent group (group levels)"
// @Param        detailed_group_id query string false "Detailed group (accounts)"
// @Param        search            query string false "Name or code search"
// @Param        is_active         query bool   false "Active filter"
// @Param        page              query int    false "Page" default(1)
// @Param        page_size         query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]accountingapp.GroupResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{level} [get]
func (h *ChartOfAccountsHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	level, isAccount, ok := h.level(c)
	if !ok {
		return
	}

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	q.Page, q.PageSize = pageOrDefault(q.Page, q.PageSize)
	ctx := c.Request.Context()

	if isAccount {
		detailedGroupID, ok := h.optionalUUID(c, "detailed_group_id", q.DetailedGroupID)
		if !ok {
			return
		}
		accounts, total, err := h.accounts.ListAccounts(ctx, tenantID, accountingapp.AccountListFilter{
			DetailedGroupID: detailedGroupID,
			Search:          q.Search,
			IsActive:        q.IsActive,
			Page:            q.Page,
			PageSize:        q.PageSize,
			SortBy:          q.SortBy,
			SortDesc:        q.SortDesc,
		})
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, accounts, total, q.Page, q.PageSize)
		return
	}

	parentID, ok := h.optionalUUID(c, "parent_id", q.ParentID)
	if !ok {
		return
	}
	groups, total, err := h.groups.ListGroups(ctx, tenantID, level, accountingapp.GroupListFilter{
		ParentID: parentID,
		Search:   q.Search,
		IsActive: q.IsActive,
		Page:     q.Page,
		PageSize: q.PageSize,
		SortBy:   q.SortBy,
		SortDesc: q.SortDesc,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, groups, total, q.Page, q.PageSize)
}

func (h *ChartOfAccountsHandler) optionalUUID(c *gin.Context, name, raw string) (*uuid.UUID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return nil, false
	}
	return &id, true
}

// Get godoc
// @ID           getChartOfAccountsEntry
// @Summary      Get a group or an account
// @Tags         chart-of-accounts
// @Produce      json
// @Param        level path string true "Level segment"
// @Param        id    path string true "Group or account ID"
// @Success      200 {object} APIResponse[accountingapp.GroupResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{level}/{id} [get]
func (h *ChartOfAccountsHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	level, isAccount, ok := h.level(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		result any
		err    error
	)
	if isAccount {
		result, err = h.accounts.GetAccount(ctx, tenantID, id)
	} else {
		result, err = h.groups.GetGroup(ctx, tenantID, level, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Update godoc
// @ID           updateChartOfAccountsEntry
// @Summary      Update a group or an account
// @Description  Group levels take accountingapp.UpdateGroupRequest, accounts take accountingapp.UpdateAccountRequest. Changing an account's opening balance shifts its current balance by the same amount.
// @Tags         chart-of-accounts
// @Accept       json
// @Produce      json
// @Param        level   path string                           true "Level segment"
// @Param        id      path string                           true "Group or account ID"
// @Param        request body accountingapp.UpdateGroupRequest true "Patch"
// @Success      200 {object} APIResponse[accountingapp.GroupResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{level}/{id} [put]
func (h *ChartOfAccountsHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	level, isAccount, ok := h.level(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if isAccount {
		var req accountingapp.UpdateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
		account, err := h.accounts.UpdateAccount(ctx, tenantID, id, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, account)
		return
	}

	var req accountingapp.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	group, err := h.groups.UpdateGroup(ctx, tenantID, level, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// Delete godoc
// @ID           deleteChartOfAccountsEntry
// @Summary      Delete a group or an account
// @Description  Groups with children answer HAS_CHILDREN; system accounts answer SYSTEM_ACCOUNT_PROTECTED.
// @Tags         chart-of-accounts
// @Param        level path string true "Level segment"
// @Param        id    path string true "Group or account ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{level}/{id} [delete]
func (h *ChartOfAccountsHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	level, isAccount, ok := h.level(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var err error
	if isAccount {
		err = h.accounts.DeleteAccount(ctx, tenantID, id)
	} else {
		err = h.groups.DeleteGroup(ctx, tenantID, level, id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Tree godoc
// @ID           getChartOfAccountsTree
// @Summary      The tenant's nested chart of accounts
// @Tags         chart-of-accounts
// @Produce      json
// @Success      200 {object} APIResponse[[]accountingapp.TreeNodeResponse]
// @Security     BearerAuth
// @Router       /chart-of-accounts/tree [get]
func (h *ChartOfAccountsHandler) Tree(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	tree, err := h.groups.GetTree(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Export godoc
// @ID           exportChartOfAccounts
// @Summary      Export accounts as CSV
// @Description  The file uses the import header so it can be uploaded again.
// @Tags         chart-of-accounts
// @Produce      text/csv
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /chart-of-accounts/export [get]
func (h *ChartOfAccountsHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	n, err := h.accounts.ExportAccountsCSV(c.Request.Context(), tenantID, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileName := "chart_of_accounts_" + time.Now().UTC().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("X-Total-Count", strconv.Itoa(n))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
