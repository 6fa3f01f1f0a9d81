package service

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "detailbay/internal/catalog/errors"
	"detailbay/internal/catalog/repository"
	"detailbay/pkg/auth"
	"detailbay/pkg/config"
	apperrors "detailbay/pkg/errors"
	"detailbay/pkg/model"
	"detailbay/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type CatalogService interface {
	GetPackages(ctx context.Context) ([]*model.Package, error)
	GetSubPackages(ctx context.Context, packageID string) ([]*model.SubPackage, error)
	GetAddOns(ctx context.Context) ([]*model.AddOn, error)

	CreatePackage(ctx context.Context, principal auth.Principal, pkg *model.Package) error
	CreateSubPackage(ctx context.Context, principal auth.Principal, sub *model.SubPackage) error
	CreateAddOn(ctx context.Context, principal auth.Principal, addOn *model.AddOn) error
	SetPrice(ctx context.Context, principal auth.Principal, price *model.Price) error
	SetPackageActive(ctx context.Context, principal auth.Principal, id string, active bool) error
	SetSubPackageActive(ctx context.Context, principal auth.Principal, id string, active bool) error
	SetAddOnActive(ctx context.Context, principal auth.Principal, id string, active bool) error

	Quote(ctx context.Context, subPackageID, vehicleType string, addOnIDs []string) (int64, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	v := validator.New()
	if err := model.RegisterFormats(v); err != nil {
		cfg.Log.Fatal("Failed to register format validators", "error", err)
	}

	return &catalogService{
		repo:     repo,
		validate: v,
		cfg:      cfg,
	}
}

func (s *catalogService) GetPackages(ctx context.Context) ([]*model.Package, error) {
	packages, err := s.repo.FindAllPackages(ctx, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch packages", err)
	}
	return packages, nil
}

func (s *catalogService) GetSubPackages(ctx context.Context, packageID string) ([]*model.SubPackage, error) {
	if packageID == "" {
		return nil, apperrors.InvalidInput("Package ID cannot be empty")
	}

	if _, err := s.repo.FindPackageByID(ctx, packageID); err != nil {
		return nil, s.mapLookupError(err, "Package", packageID)
	}

	subs, err := s.repo.FindSubPackagesByPackage(ctx, packageID, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch sub-packages", err)
	}
	return subs, nil
}

func (s *catalogService) GetAddOns(ctx context.Context) ([]*model.AddOn, error) {
	addOns, err := s.repo.FindAllAddOns(ctx, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch add-ons", err)
	}
	return addOns, nil
}

func (s *catalogService) CreatePackage(ctx context.Context, principal auth.Principal, pkg *model.Package) error {
	pkg.Name = sanitizer.NormalizeName(pkg.Name)
	pkg.Description = sanitizer.TrimAndNormalize(pkg.Description)
	pkg.IsActive = true

	if err := s.validate.Struct(pkg); err != nil {
		return apperrors.Validation("Package validation failed", map[string]any{
			"details": err.Error(),
		})
	}

	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return apperrors.Internal("Failed to create package", err)
	}

	s.cfg.Log.Info("Package created", "id", pkg.ID, "name", pkg.Name, "admin_id", principal.AdminID)
	return nil
}

func (s *catalogService) CreateSubPackage(ctx context.Context, principal auth.Principal, sub *model.SubPackage) error {
	sub.Name = sanitizer.NormalizeName(sub.Name)
	sub.Description = sanitizer.TrimAndNormalize(sub.Description)
	sub.IsActive = true

	if err := s.validate.Struct(sub); err != nil {
		return apperrors.Validation("Sub-package validation failed", map[string]any{
			"details": err.Error(),
		})
	}

	if _, err := s.repo.FindPackageByID(ctx, sub.PackageID); err != nil {
		return s.mapLookupError(err, "Package", sub.PackageID)
	}

	if err := s.repo.CreateSubPackage(ctx, sub); err != nil {
		return apperrors.Internal("Failed to create sub-package", err)
	}

	s.cfg.Log.Info("Sub-package created", "id", sub.ID, "package_id", sub.PackageID, "admin_id", principal.AdminID)
	return nil
}

func (s *catalogService) CreateAddOn(ctx context.Context, principal auth.Principal, addOn *model.AddOn) error {
	addOn.Name = sanitizer.NormalizeName(addOn.Name)
	addOn.IsActive = true

	if err := s.validate.Struct(addOn); err != nil {
		return apperrors.Validation("Add-on validation failed", map[string]any{
			"details": err.Error(),
		})
	}

	if err := s.repo.CreateAddOn(ctx, addOn); err != nil {
		return apperrors.Internal("Failed to create add-on", err)
	}

	s.cfg.Log.Info("Add-on created", "id", addOn.ID, "name", addOn.Name, "admin_id", principal.AdminID)
	return nil
}

func (s *catalogService) SetPrice(ctx context.Context, principal auth.Principal, price *model.Price) error {
	if err := s.validate.Struct(price); err != nil {
		return apperrors.Validation("Price validation failed", map[string]any{
			"details": err.Error(),
		})
	}

	if _, err := s.repo.FindSubPackageByID(ctx, price.SubPackageID); err != nil {
		return s.mapLookupError(err, "SubPackage", price.SubPackageID)
	}

	if err := s.repo.UpsertPrice(ctx, price); err != nil {
		return apperrors.Internal("Failed to set price", err)
	}

	s.cfg.Log.Info("Price set",
		"sub_package_id", price.SubPackageID,
		"vehicle_type", price.VehicleType,
		"amount_cents", price.AmountCents,
		"admin_id", principal.AdminID,
	)
	return nil
}

func (s *catalogService) SetPackageActive(ctx context.Context, principal auth.Principal, id string, active bool) error {
	return s.setActive(ctx, principal, repository.PackagesCollection, "Package", id, active)
}

func (s *catalogService) SetSubPackageActive(ctx context.Context, principal auth.Principal, id string, active bool) error {
	return s.setActive(ctx, principal, repository.SubPackagesCollection, "SubPackage", id, active)
}

func (s *catalogService) SetAddOnActive(ctx context.Context, principal auth.Principal, id string, active bool) error {
	return s.setActive(ctx, principal, repository.AddOnsCollection, "AddOn", id, active)
}

func (s *catalogService) setActive(ctx context.Context, principal auth.Principal, collection, resource, id string, active bool) error {
	if id == "" {
		return apperrors.InvalidInput(fmt.Sprintf("%s ID cannot be empty", resource))
	}

	if err := s.repo.SetActive(ctx, collection, id, active); err != nil {
		return s.mapLookupError(err, resource, id)
	}

	s.cfg.Log.Info("Catalog item active flag changed",
		"resource", resource,
		"id", id,
		"active", active,
		"admin_id", principal.AdminID,
	)
	return nil
}

// Quote computes the authoritative total for a booking request: the base
// rate for the (sub_package, vehicle_type) pair plus the sum of the chosen
// add-ons. Inactive add-ons and unknown IDs are rejected rather than
// silently skipped.
func (s *catalogService) Quote(ctx context.Context, subPackageID, vehicleType string, addOnIDs []string) (int64, error) {
	sub, err := s.repo.FindSubPackageByID(ctx, subPackageID)
	if err != nil {
		return 0, s.mapLookupError(err, "SubPackage", subPackageID)
	}
	if !sub.IsActive {
		return 0, apperrors.Validation("Sub-package is no longer offered", map[string]any{
			"sub_package_id": subPackageID,
		})
	}

	price, err := s.repo.FindPrice(ctx, subPackageID, vehicleType)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return 0, apperrors.Validation("No price configured for this vehicle type", map[string]any{
				"sub_package_id": subPackageID,
				"vehicle_type":   vehicleType,
			})
		}
		return 0, apperrors.Internal("Failed to fetch price", err)
	}

	total := price.AmountCents

	if len(addOnIDs) > 0 {
		addOns, err := s.repo.FindAddOnsByIDs(ctx, addOnIDs)
		if err != nil {
			return 0, s.mapLookupError(err, "AddOn", fmt.Sprintf("%v", addOnIDs))
		}

		found := make(map[string]*model.AddOn, len(addOns))
		for _, a := range addOns {
			found[a.ID] = a
		}

		for _, id := range addOnIDs {
			addOn, ok := found[id]
			if !ok {
				return 0, apperrors.NotFoundWithID("AddOn", id)
			}
			if !addOn.IsActive {
				return 0, apperrors.Validation("Add-on is no longer offered", map[string]any{
					"add_on_id": id,
				})
			}
			total += addOn.PriceCents
		}
	}

	return total, nil
}

func (s *catalogService) mapLookupError(err error, resource, id string) error {
	switch {
	case errors.Is(err, catalogerrors.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, catalogerrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	default:
		return apperrors.Internal(fmt.Sprintf("Failed to fetch %s", resource), err)
	}
}
