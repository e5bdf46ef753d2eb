package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/callcrm/backend/internal/domain/navigation"
	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMenuRepository is a mock implementation of navigation.MenuRepository
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Save(ctx context.Context, menu *navigation.SidebarMenu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*navigation.SidebarMenu, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*navigation.SidebarMenu), args.Error(1)
}

func (m *MockMenuRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*navigation.SidebarMenu, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*navigation.SidebarMenu), args.Get(1).(int64), args.Error(2)
}

func (m *MockMenuRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockMenuRepository) SaveSubMenu(ctx context.Context, subMenu *navigation.SidebarSubMenu) error {
	args := m.Called(ctx, subMenu)
	return args.Error(0)
}

func (m *MockMenuRepository) FindSubMenuByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*navigation.SidebarSubMenu, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*navigation.SidebarSubMenu), args.Error(1)
}

func (m *MockMenuRepository) FindSubMenusByMenuForTenant(ctx context.Context, tenantID, menuID uuid.UUID) ([]*navigation.SidebarSubMenu, error) {
	args := m.Called(ctx, tenantID, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*navigation.SidebarSubMenu), args.Error(1)
}

func (m *MockMenuRepository) DeleteSubMenuForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockMenuRepository) FindTreeForTenant(ctx context.Context, tenantID uuid.UUID) ([]*navigation.MenuTree, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*navigation.MenuTree), args.Error(1)
}

func newMenuService(repo *MockMenuRepository) *MenuService {
	return NewMenuService(repo, zap.NewNop())
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, code, domainErr.Code)
}

func TestMenuService_CreateMenu_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	repo.On("Save", ctx, mock.AnythingOfType("*navigation.SidebarMenu")).Return(nil)

	result, err := newMenuService(repo).CreateMenu(ctx, tenantID, CreateMenuRequest{
		Name:        "Leads",
		Icon:        "phone",
		Route:       "/leads",
		ResourceKey: "leads",
		Level:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Leads", result.Name)
	assert.Equal(t, "leads", result.ResourceKey)
	assert.Equal(t, "phone", result.Icon)
	assert.Equal(t, "/leads", result.Route)
	assert.True(t, result.IsActive)

	repo.AssertExpectations(t)
}

func TestMenuService_CreateMenu_InvalidResourceKey(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)

	_, err := newMenuService(repo).CreateMenu(ctx, uuid.New(), CreateMenuRequest{
		Name:        "Leads",
		ResourceKey: "Leads And Calls!",
	})

	assertDomainErrorCode(t, err, "INVALID_RESOURCE_KEY")
}

func TestMenuService_ListMenus_OrdersByLevel(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)

	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "level" && f.OrderDir == "asc" && f.Page == 1
	})).Return([]*navigation.SidebarMenu{menu}, int64(1), nil)

	result, err := newMenuService(repo).ListMenus(ctx, tenantID, ListMenusInput{})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "leads", result.Items[0].ResourceKey)
}

func TestMenuService_UpdateMenu_PartialFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)
	require.NoError(t, menu.Update("Leads", "phone", "/leads"))

	repo.On("FindByIDForTenant", ctx, tenantID, menu.ID).Return(menu, nil)
	repo.On("Save", ctx, menu).Return(nil)

	newName := "Lead Queue"
	newLevel := 3
	result, err := newMenuService(repo).UpdateMenu(ctx, tenantID, menu.ID, UpdateMenuRequest{
		Name:  &newName,
		Level: &newLevel,
	})

	require.NoError(t, err)
	assert.Equal(t, "Lead Queue", result.Name)
	assert.Equal(t, 3, result.Level)
	// Untouched fields stay as they were
	assert.Equal(t, "phone", result.Icon)
	assert.Equal(t, "/leads", result.Route)
}

func TestMenuService_DeleteMenu_WithSubmenusRejected(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)
	subMenu, _ := navigation.NewSidebarSubMenu(tenantID, menu.ID, "Import", "lead_import", 1)

	repo.On("FindByIDForTenant", ctx, tenantID, menu.ID).Return(menu, nil)
	repo.On("FindSubMenusByMenuForTenant", ctx, tenantID, menu.ID).Return([]*navigation.SidebarSubMenu{subMenu}, nil)

	err := newMenuService(repo).DeleteMenu(ctx, tenantID, menu.ID)

	assertDomainErrorCode(t, err, "MENU_HAS_SUBMENUS")
}

func TestMenuService_DeleteMenu_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)

	repo.On("FindByIDForTenant", ctx, tenantID, menu.ID).Return(menu, nil)
	repo.On("FindSubMenusByMenuForTenant", ctx, tenantID, menu.ID).Return([]*navigation.SidebarSubMenu{}, nil)
	repo.On("DeleteForTenant", ctx, tenantID, menu.ID).Return(nil)

	err := newMenuService(repo).DeleteMenu(ctx, tenantID, menu.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestMenuService_CreateSubMenu_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)

	repo.On("FindByIDForTenant", ctx, tenantID, menu.ID).Return(menu, nil)
	repo.On("SaveSubMenu", ctx, mock.AnythingOfType("*navigation.SidebarSubMenu")).Return(nil)

	result, err := newMenuService(repo).CreateSubMenu(ctx, tenantID, menu.ID, CreateSubMenuRequest{
		Name:        "Import",
		Route:       "/leads/import",
		ResourceKey: "lead_import",
		Level:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, menu.ID, result.MenuID)
	assert.Equal(t, "lead_import", result.ResourceKey)
	assert.Equal(t, "/leads/import", result.Route)
}

func TestMenuService_CreateSubMenu_ParentNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()
	menuID := uuid.New()

	repo.On("FindByIDForTenant", ctx, tenantID, menuID).Return(nil, shared.ErrNotFound)

	_, err := newMenuService(repo).CreateSubMenu(ctx, tenantID, menuID, CreateSubMenuRequest{
		Name:        "Import",
		ResourceKey: "lead_import",
	})

	assertDomainErrorCode(t, err, "MENU_NOT_FOUND")
}

func TestMenuService_DeactivateMenu(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)

	repo.On("FindByIDForTenant", ctx, tenantID, menu.ID).Return(menu, nil)
	repo.On("Save", ctx, menu).Return(nil)

	result, err := newMenuService(repo).DeactivateMenu(ctx, tenantID, menu.ID)

	require.NoError(t, err)
	assert.False(t, result.IsActive)
}

func TestMenuService_GetTree(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMenuRepository)
	tenantID := uuid.New()

	menu, _ := navigation.NewSidebarMenu(tenantID, "Leads", "leads", 1)
	subMenu, _ := navigation.NewSidebarSubMenu(tenantID, menu.ID, "Import", "lead_import", 1)

	repo.On("FindTreeForTenant", ctx, tenantID).Return([]*navigation.MenuTree{
		{Menu: menu, SubMenus: []*navigation.SidebarSubMenu{subMenu}},
	}, nil)

	result, err := newMenuService(repo).GetTree(ctx, tenantID)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "leads", result[0].Menu.ResourceKey)
	require.Len(t, result[0].SubMenus, 1)
	assert.Equal(t, "lead_import", result[0].SubMenus[0].ResourceKey)
}
