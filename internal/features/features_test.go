package features

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleModules(t *testing.T) {
	assert.Equal(t,
		[]Module{ModuleBankImport, ModuleInvoicing, ModulePayroll, ModuleInventory, ModulePointOfSale},
		VisibleModules(IndustryRetail))
	assert.Equal(t,
		[]Module{ModuleBankImport, ModuleInvoicing, ModulePayroll, ModuleProjects, ModuleJobCosting, ModuleTimeTracking},
		VisibleModules(IndustryConstruction))
	assert.Equal(t, []Module{ModuleBankImport, ModuleInvoicing, ModulePayroll}, VisibleModules(IndustryOther))
}

func TestVisibleModules_UnknownIsOther(t *testing.T) {
	assert.Equal(t, VisibleModules(IndustryOther), VisibleModules("mining"))
	assert.Equal(t, VisibleModules(IndustryOther), VisibleModules(""))
}

func TestIsVisible(t *testing.T) {
	assert.True(t, IsVisible(IndustryHospitality, ModulePointOfSale))
	assert.False(t, IsVisible(IndustryProfessionalServices, ModuleInventory))
	assert.True(t, IsVisible(IndustryProfessionalServices, ModuleTimeTracking))
	for _, ind := range Industries() {
		assert.True(t, IsVisible(ind, ModuleBankImport), ind)
	}
}

func TestKnownIndustry(t *testing.T) {
	for _, ind := range Industries() {
		assert.True(t, KnownIndustry(string(ind)))
	}
	assert.False(t, KnownIndustry("Retail"))
	assert.False(t, KnownIndustry("mining"))
}

type fakeChecker struct {
	mu      sync.Mutex
	allowed map[string]bool
	err     error
	calls   int
}

func (f *fakeChecker) CheckFeature(_ context.Context, orgID, feature string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[feature], nil
}

func TestGate_Offline(t *testing.T) {
	g := NewGate(nil, "org-1", time.Minute, nil)
	assert.True(t, g.Offline())

	ok, err := g.Allowed(context.Background(), ModulePayroll)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, NewGate(&fakeChecker{}, "", time.Minute, nil).Offline())
}

func TestGate_CachesAnswers(t *testing.T) {
	fc := &fakeChecker{allowed: map[string]bool{"invoicing": true}}
	g := NewGate(fc, "org-1", time.Minute, nil)

	for i := 0; i < 3; i++ {
		ok, err := g.Allowed(context.Background(), ModuleInvoicing)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.Allowed(context.Background(), ModulePayroll)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, fc.calls)
}

func TestGate_ErrorsNotCached(t *testing.T) {
	fc := &fakeChecker{err: errors.New("backend down")}
	g := NewGate(fc, "org-1", time.Minute, nil)

	_, err := g.Allowed(context.Background(), ModulePayroll)
	require.Error(t, err)

	fc.err = nil
	fc.allowed = map[string]bool{"payroll": true}
	ok, err := g.Allowed(context.Background(), ModulePayroll)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, fc.calls)
}

func TestGate_Visible(t *testing.T) {
	fc := &fakeChecker{allowed: map[string]bool{"bank_import": true, "invoicing": true, "inventory": true}}
	g := NewGate(fc, "org-1", time.Minute, nil)

	got, err := g.Visible(context.Background(), IndustryRetail)
	require.NoError(t, err)
	assert.Equal(t, []ModuleStatus{
		{ModuleBankImport, true},
		{ModuleInvoicing, true},
		{ModulePayroll, false},
		{ModuleInventory, true},
		{ModulePointOfSale, false},
	}, got)
}

func TestGate_VisibleError(t *testing.T) {
	g := NewGate(&fakeChecker{err: errors.New("down")}, "org-1", time.Minute, nil)
	_, err := g.Visible(context.Background(), IndustryRetail)
	assert.EqualError(t, err, "down")
}
