package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "detailbay/internal/catalog/errors"
	"detailbay/internal/catalog/repository"
	"detailbay/pkg/auth"
	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"

	"github.com/go-playground/validator/v10"
)

type mockCatalogRepository struct {
	createPackageFunc    func(ctx context.Context, pkg *model.Package) error
	findAllPackagesFunc  func(ctx context.Context, activeOnly bool) ([]*model.Package, error)
	findPackageByIDFunc  func(ctx context.Context, id string) (*model.Package, error)
	createSubPackageFunc func(ctx context.Context, sub *model.SubPackage) error
	findSubsFunc         func(ctx context.Context, packageID string, activeOnly bool) ([]*model.SubPackage, error)
	findSubByIDFunc      func(ctx context.Context, id string) (*model.SubPackage, error)
	createAddOnFunc      func(ctx context.Context, addOn *model.AddOn) error
	findAllAddOnsFunc    func(ctx context.Context, activeOnly bool) ([]*model.AddOn, error)
	findAddOnsByIDsFunc  func(ctx context.Context, ids []string) ([]*model.AddOn, error)
	upsertPriceFunc      func(ctx context.Context, price *model.Price) error
	findPriceFunc        func(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error)
	setActiveFunc        func(ctx context.Context, collection string, id string, active bool) error
}

func (m *mockCatalogRepository) CreatePackage(ctx context.Context, pkg *model.Package) error {
	if m.createPackageFunc != nil {
		return m.createPackageFunc(ctx, pkg)
	}
	pkg.ID = "65f000000000000000000010"
	return nil
}

func (m *mockCatalogRepository) FindAllPackages(ctx context.Context, activeOnly bool) ([]*model.Package, error) {
	if m.findAllPackagesFunc != nil {
		return m.findAllPackagesFunc(ctx, activeOnly)
	}
	return []*model.Package{}, nil
}

func (m *mockCatalogRepository) FindPackageByID(ctx context.Context, id string) (*model.Package, error) {
	if m.findPackageByIDFunc != nil {
		return m.findPackageByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockCatalogRepository) CreateSubPackage(ctx context.Context, sub *model.SubPackage) error {
	if m.createSubPackageFunc != nil {
		return m.createSubPackageFunc(ctx, sub)
	}
	sub.ID = "65f000000000000000000011"
	return nil
}

func (m *mockCatalogRepository) FindSubPackagesByPackage(ctx context.Context, packageID string, activeOnly bool) ([]*model.SubPackage, error) {
	if m.findSubsFunc != nil {
		return m.findSubsFunc(ctx, packageID, activeOnly)
	}
	return []*model.SubPackage{}, nil
}

func (m *mockCatalogRepository) FindSubPackageByID(ctx context.Context, id string) (*model.SubPackage, error) {
	if m.findSubByIDFunc != nil {
		return m.findSubByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockCatalogRepository) CreateAddOn(ctx context.Context, addOn *model.AddOn) error {
	if m.createAddOnFunc != nil {
		return m.createAddOnFunc(ctx, addOn)
	}
	addOn.ID = "65f000000000000000000012"
	return nil
}

func (m *mockCatalogRepository) FindAllAddOns(ctx context.Context, activeOnly bool) ([]*model.AddOn, error) {
	if m.findAllAddOnsFunc != nil {
		return m.findAllAddOnsFunc(ctx, activeOnly)
	}
	return []*model.AddOn{}, nil
}

func (m *mockCatalogRepository) FindAddOnsByIDs(ctx context.Context, ids []string) ([]*model.AddOn, error) {
	if m.findAddOnsByIDsFunc != nil {
		return m.findAddOnsByIDsFunc(ctx, ids)
	}
	return []*model.AddOn{}, nil
}

func (m *mockCatalogRepository) UpsertPrice(ctx context.Context, price *model.Price) error {
	if m.upsertPriceFunc != nil {
		return m.upsertPriceFunc(ctx, price)
	}
	return nil
}

func (m *mockCatalogRepository) FindPrice(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
	if m.findPriceFunc != nil {
		return m.findPriceFunc(ctx, subPackageID, vehicleType)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockCatalogRepository) SetActive(ctx context.Context, collection string, id string, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, collection, id, active)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(t *testing.T, repo *mockCatalogRepository) *catalogService {
	t.Helper()
	cfg := testConfig(t)

	v := validator.New()
	if err := model.RegisterFormats(v); err != nil {
		t.Fatalf("failed to register format validators: %v", err)
	}

	return &catalogService{
		repo:     repo,
		validate: v,
		cfg:      cfg,
	}
}

func activeSubPackage(id string) *model.SubPackage {
	return &model.SubPackage{
		ID:          id,
		PackageID:   "65f000000000000000000010",
		Name:        "Interior Deep Clean",
		DurationMin: 90,
		IsActive:    true,
	}
}

func TestQuote_BasePriceOnly(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			return activeSubPackage(id), nil
		},
		findPriceFunc: func(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
			return &model.Price{SubPackageID: subPackageID, VehicleType: vehicleType, AmountCents: 12500}, nil
		},
	}
	svc := newTestService(t, repo)

	total, err := svc.Quote(context.Background(), "65f000000000000000000011", "sedan", nil)
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}
	if total != 12500 {
		t.Errorf("expected 12500, got %d", total)
	}
}

func TestQuote_SumsAddOns(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			return activeSubPackage(id), nil
		},
		findPriceFunc: func(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
			return &model.Price{AmountCents: 10000}, nil
		},
		findAddOnsByIDsFunc: func(ctx context.Context, ids []string) ([]*model.AddOn, error) {
			return []*model.AddOn{
				{ID: "65f000000000000000000020", Name: "Pet Hair Removal", PriceCents: 2500, IsActive: true},
				{ID: "65f000000000000000000021", Name: "Engine Bay", PriceCents: 4000, IsActive: true},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	total, err := svc.Quote(context.Background(), "65f000000000000000000011", "suv",
		[]string{"65f000000000000000000020", "65f000000000000000000021"})
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}
	if total != 16500 {
		t.Errorf("expected 16500, got %d", total)
	}
}

func TestQuote_UnknownAddOnRejected(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			return activeSubPackage(id), nil
		},
		findPriceFunc: func(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
			return &model.Price{AmountCents: 10000}, nil
		},
		findAddOnsByIDsFunc: func(ctx context.Context, ids []string) ([]*model.AddOn, error) {
			return []*model.AddOn{}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Quote(context.Background(), "65f000000000000000000011", "sedan",
		[]string{"65f000000000000000000099"})
	if err == nil {
		t.Fatal("expected error for unknown add-on")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestQuote_InactiveAddOnRejected(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			return activeSubPackage(id), nil
		},
		findPriceFunc: func(ctx context.Context, subPackageID, vehicleType string) (*model.Price, error) {
			return &model.Price{AmountCents: 10000}, nil
		},
		findAddOnsByIDsFunc: func(ctx context.Context, ids []string) ([]*model.AddOn, error) {
			return []*model.AddOn{
				{ID: "65f000000000000000000020", PriceCents: 2500, IsActive: false},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Quote(context.Background(), "65f000000000000000000011", "sedan",
		[]string{"65f000000000000000000020"})
	if err == nil {
		t.Fatal("expected error for inactive add-on")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestQuote_InactiveSubPackageRejected(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			sub := activeSubPackage(id)
			sub.IsActive = false
			return sub, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Quote(context.Background(), "65f000000000000000000011", "sedan", nil)
	if err == nil {
		t.Fatal("expected error for inactive sub-package")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestQuote_MissingPriceRejected(t *testing.T) {
	repo := &mockCatalogRepository{
		findSubByIDFunc: func(ctx context.Context, id string) (*model.SubPackage, error) {
			return activeSubPackage(id), nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Quote(context.Background(), "65f000000000000000000011", "truck", nil)
	if err == nil {
		t.Fatal("expected error when no price is configured")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreatePackage_NormalizesAndValidates(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := newTestService(t, repo)

	pkg := &model.Package{Name: "  premium   detail "}
	if err := svc.CreatePackage(context.Background(), auth.Principal{AdminID: "admin-1"}, pkg); err != nil {
		t.Fatalf("CreatePackage() error: %v", err)
	}
	if pkg.Name != "premium detail" {
		t.Errorf("expected normalized name, got %q", pkg.Name)
	}
	if !pkg.IsActive {
		t.Error("expected new package to be active")
	}

	bad := &model.Package{Name: "x"}
	err := svc.CreatePackage(context.Background(), auth.Principal{AdminID: "admin-1"}, bad)
	if err == nil {
		t.Fatal("expected validation error for one-character name")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateSubPackage_RequiresExistingPackage(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := newTestService(t, repo)

	sub := &model.SubPackage{
		PackageID:   "65f000000000000000000010",
		Name:        "Exterior Wash",
		DurationMin: 45,
	}
	err := svc.CreateSubPackage(context.Background(), auth.Principal{AdminID: "admin-1"}, sub)
	if err == nil {
		t.Fatal("expected error when parent package does not exist")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSetPrice_RequiresExistingSubPackage(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := newTestService(t, repo)

	price := &model.Price{
		SubPackageID: "65f000000000000000000011",
		VehicleType:  "sedan",
		AmountCents:  9900,
	}
	err := svc.SetPrice(context.Background(), auth.Principal{AdminID: "admin-1"}, price)
	if err == nil {
		t.Fatal("expected error when sub-package does not exist")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSetPackageActive_CallsRepository(t *testing.T) {
	var gotCollection, gotID string
	var gotActive bool
	repo := &mockCatalogRepository{
		setActiveFunc: func(ctx context.Context, collection string, id string, active bool) error {
			gotCollection = collection
			gotID = id
			gotActive = active
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.SetPackageActive(context.Background(), auth.Principal{AdminID: "admin-1"}, "65f000000000000000000001", false); err != nil {
		t.Fatalf("SetPackageActive returned error: %v", err)
	}
	if gotCollection != repository.PackagesCollection {
		t.Errorf("expected collection %q, got %q", repository.PackagesCollection, gotCollection)
	}
	if gotID != "65f000000000000000000001" || gotActive {
		t.Errorf("unexpected arguments: id=%q active=%v", gotID, gotActive)
	}
}

func TestSetAddOnActive_UnknownIDIsNotFound(t *testing.T) {
	repo := &mockCatalogRepository{
		setActiveFunc: func(ctx context.Context, collection string, id string, active bool) error {
			return catalogerrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	err := svc.SetAddOnActive(context.Background(), auth.Principal{AdminID: "admin-1"}, "65f000000000000000000099", true)
	if err == nil {
		t.Fatal("expected error for unknown add-on")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
