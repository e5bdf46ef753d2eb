package navigation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSidebarMenu(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates menu with normalized resource key", func(t *testing.T) {
		menu, err := NewSidebarMenu(tenantID, "Lead Management", "Leads", 2)

		require.NoError(t, err)
		assert.Equal(t, "Lead Management", menu.Name)
		assert.Equal(t, "leads", menu.ResourceKey)
		assert.Equal(t, 2, menu.Level)
		assert.True(t, menu.IsActive)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewSidebarMenu(tenantID, "", "leads", 0)

		assert.Error(t, err)
	})

	t.Run("fails with invalid resource key", func(t *testing.T) {
		_, err := NewSidebarMenu(tenantID, "Leads", "lead management", 0)

		assert.Error(t, err)
	})

	t.Run("fails with negative level", func(t *testing.T) {
		_, err := NewSidebarMenu(tenantID, "Leads", "leads", -1)

		assert.Error(t, err)
	})
}

func TestSidebarMenuMutations(t *testing.T) {
	tenantID := uuid.New()

	t.Run("update replaces display fields", func(t *testing.T) {
		menu, err := NewSidebarMenu(tenantID, "Leads", "leads", 0)
		require.NoError(t, err)

		require.NoError(t, menu.Update("Lead Center", "phone", "/leads"))
		assert.Equal(t, "Lead Center", menu.Name)
		assert.Equal(t, "phone", menu.Icon)
		assert.Equal(t, "/leads", menu.Route)
	})

	t.Run("set level reorders", func(t *testing.T) {
		menu, err := NewSidebarMenu(tenantID, "Leads", "leads", 0)
		require.NoError(t, err)

		require.NoError(t, menu.SetLevel(5))
		assert.Equal(t, 5, menu.Level)
		assert.Error(t, menu.SetLevel(-1))
	})

	t.Run("deactivate hides the menu", func(t *testing.T) {
		menu, err := NewSidebarMenu(tenantID, "Leads", "leads", 0)
		require.NoError(t, err)

		menu.Deactivate()
		assert.False(t, menu.IsActive)
		menu.Activate()
		assert.True(t, menu.IsActive)
	})
}

func TestNewSidebarSubMenu(t *testing.T) {
	tenantID := uuid.New()
	menuID := uuid.New()

	t.Run("creates submenu under a menu", func(t *testing.T) {
		sub, err := NewSidebarSubMenu(tenantID, menuID, "Import", "lead_import", 1)

		require.NoError(t, err)
		assert.Equal(t, menuID, sub.MenuID)
		assert.Equal(t, "lead_import", sub.ResourceKey)
		assert.True(t, sub.IsActive)
	})

	t.Run("fails without a parent menu", func(t *testing.T) {
		_, err := NewSidebarSubMenu(tenantID, uuid.Nil, "Import", "lead_import", 1)

		assert.Error(t, err)
	})
}
