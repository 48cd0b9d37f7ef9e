package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/pkg/telemetry"
)

// CatalogService manages the product catalog: reference entities,
// generic products, sellable products and the brand catalog.
type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error

	CreateBrand(ctx context.Context, name string) (*dto.BrandResponse, error)
	ListBrands(ctx context.Context) ([]dto.BrandResponse, error)
	UpdateBrand(ctx context.Context, id, name string) error
	DeleteBrand(ctx context.Context, id string) error

	CreateSupermarket(ctx context.Context, name string) (*dto.SupermarketResponse, error)
	ListSupermarkets(ctx context.Context) ([]dto.SupermarketResponse, error)
	UpdateSupermarket(ctx context.Context, id, name string) error
	DeleteSupermarket(ctx context.Context, id string) error

	CreateUnit(ctx context.Context, req *dto.UnitRequest) (*dto.UnitResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
	UpdateUnit(ctx context.Context, id string, req *dto.UnitRequest) error
	DeleteUnit(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, categoryID string) ([]dto.ProductResponse, error)
	// SearchProducts decorates hits with the latest reported price
	// across each product's sellable variants.
	SearchProducts(ctx context.Context, query, categoryID, brandID string) ([]dto.ProductSearchResponse, error)
	UpdateProduct(ctx context.Context, id string, req *dto.ProductRequest) error
	DeleteProduct(ctx context.Context, id string) error

	CreateProductUnit(ctx context.Context, req *dto.ProductUnitRequest) error
	ListProductUnits(ctx context.Context, productID string) ([]dto.UnitResponse, error)

	// CreateSellableProduct registers an offering and, when the brand
	// catalog disagrees, attaches a warning instead of refusing.
	CreateSellableProduct(ctx context.Context, req *dto.SellableProductRequest) (*dto.SellableProductResponse, error)
	ListSellableProducts(ctx context.Context, supermarketID, productID string) ([]dto.SellableProductResponse, error)
	DeleteSellableProduct(ctx context.Context, id string) error

	CreateSellableProductUnit(ctx context.Context, req *dto.SellableProductUnitRequest) error
	ListSellableProductUnits(ctx context.Context, sellableProductID string) ([]dto.SellableProductUnitResponse, error)
	DeleteSellableProductUnit(ctx context.Context, id string) error

	UpsertBrandCatalogEntry(ctx context.Context, req *dto.BrandCatalogRequest) (*dto.BrandCatalogResponse, error)
	ListBrandCatalog(ctx context.Context, brandID string) ([]dto.BrandCatalogResponse, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	priceRepo   repository.PriceRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo repository.CatalogRepository, priceRepo repository.PriceRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo, priceRepo: priceRepo}
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	c := &domain.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := s.catalogRepo.CreateCategory(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id, name string) error {
	updated, err := s.catalogRepo.UpdateCategory(ctx, id, name)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	if !updated {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *catalogService) CreateBrand(ctx context.Context, name string) (*dto.BrandResponse, error) {
	b := &domain.Brand{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := s.catalogRepo.CreateBrand(ctx, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]dto.BrandResponse, error) {
	brands, err := s.catalogRepo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(brands))
	for _, b := range brands {
		out = append(out, dto.BrandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt})
	}
	return out, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id, name string) error {
	updated, err := s.catalogRepo.UpdateBrand(ctx, id, name)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	if !updated {
		return domain.ErrBrandNotFound
	}
	return nil
}

func (s *catalogService) DeleteBrand(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteBrand(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrBrandNotFound
	}
	return nil
}

func (s *catalogService) CreateSupermarket(ctx context.Context, name string) (*dto.SupermarketResponse, error) {
	sm := &domain.Supermarket{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := s.catalogRepo.CreateSupermarket(ctx, sm); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}
	return &dto.SupermarketResponse{ID: sm.ID, Name: sm.Name, CreatedAt: sm.CreatedAt}, nil
}

func (s *catalogService) ListSupermarkets(ctx context.Context) ([]dto.SupermarketResponse, error) {
	supermarkets, err := s.catalogRepo.ListSupermarkets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupermarketResponse, 0, len(supermarkets))
	for _, sm := range supermarkets {
		out = append(out, dto.SupermarketResponse{ID: sm.ID, Name: sm.Name, CreatedAt: sm.CreatedAt})
	}
	return out, nil
}

func (s *catalogService) UpdateSupermarket(ctx context.Context, id, name string) error {
	updated, err := s.catalogRepo.UpdateSupermarket(ctx, id, name)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	if !updated {
		return domain.ErrSupermarketNotFound
	}
	return nil
}

func (s *catalogService) DeleteSupermarket(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteSupermarket(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSupermarketNotFound
	}
	return nil
}

func (s *catalogService) CreateUnit(ctx context.Context, req *dto.UnitRequest) (*dto.UnitResponse, error) {
	u := &domain.Unit{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		CreatedAt:    time.Now(),
	}
	if err := s.catalogRepo.CreateUnit(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation}, nil
}

func (s *catalogService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.catalogRepo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation})
	}
	return out, nil
}

func (s *catalogService) UpdateUnit(ctx context.Context, id string, req *dto.UnitRequest) error {
	updated, err := s.catalogRepo.UpdateUnit(ctx, &domain.Unit{
		ID:           id,
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		return err
	}
	if !updated {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (s *catalogService) DeleteUnit(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteUnit(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.create_product")
	defer span.End()

	p := &domain.Product{
		ID:         uuid.New().String(),
		Name:       req.Name,
		CategoryID: req.CategoryID,
		CreatedAt:  time.Now(),
	}
	if err := s.catalogRepo.CreateProduct(ctx, p); err != nil {
		if repository.IsForeignKeyViolation(err) {
			span.SetStatus(codes.Error, "category not found")
			return nil, domain.ErrCategoryNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("product_id", p.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.ProductResponse{ID: p.ID, Name: p.Name, CategoryID: p.CategoryID}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID string) ([]dto.ProductResponse, error) {
	rows, err := s.catalogRepo.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return productResponses(rows), nil
}

func (s *catalogService) SearchProducts(ctx context.Context, query, categoryID, brandID string) ([]dto.ProductSearchResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.search_products")
	defer span.End()

	span.SetAttributes(attribute.String("query", query))

	rows, err := s.catalogRepo.SearchProducts(ctx, query, categoryID, brandID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	latest, err := s.priceRepo.LatestForProducts(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]dto.ProductSearchResponse, 0, len(rows))
	for _, r := range rows {
		hit := dto.ProductSearchResponse{
			ID:           r.ID,
			Name:         r.Name,
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
		}
		if p := latest[r.ID]; p != nil {
			v := p.Price
			hit.LatestPrice = &v
		}
		out = append(out, hit)
	}

	span.SetAttributes(attribute.Int("results", len(out)))
	span.SetStatus(codes.Ok, "")
	return out, nil
}

func productResponses(rows []repository.ProductRow) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductResponse{
			ID:           r.ID,
			Name:         r.Name,
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
		})
	}
	return out
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, req *dto.ProductRequest) error {
	updated, err := s.catalogRepo.UpdateProduct(ctx, &domain.Product{
		ID:         id,
		Name:       req.Name,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	if !updated {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *catalogService) CreateProductUnit(ctx context.Context, req *dto.ProductUnitRequest) error {
	pu := &domain.ProductUnit{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		UnitID:    req.UnitID,
	}
	if err := s.catalogRepo.CreateProductUnit(ctx, pu); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListProductUnits(ctx context.Context, productID string) ([]dto.UnitResponse, error) {
	units, err := s.catalogRepo.ListProductUnits(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation})
	}
	return out, nil
}

func (s *catalogService) CreateSellableProduct(ctx context.Context, req *dto.SellableProductRequest) (*dto.SellableProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.create_sellable_product")
	defer span.End()

	sp := &domain.SellableProduct{
		ID:            uuid.New().String(),
		ProductID:     req.ProductID,
		BrandID:       req.BrandID,
		SupermarketID: req.SupermarketID,
		CreatedAt:     time.Now(),
	}
	if err := s.catalogRepo.CreateSellableProduct(ctx, sp); err != nil {
		if repository.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate offering")
			return nil, domain.ErrDuplicateEntry
		}
		if repository.IsForeignKeyViolation(err) {
			span.SetStatus(codes.Error, "referenced entity not found")
			return nil, domain.ErrProductNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	row, err := s.catalogRepo.GetSellableProductRow(ctx, sp.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if row == nil {
		span.SetStatus(codes.Error, "sellable product vanished after insert")
		return nil, domain.ErrSellableProductNotFound
	}

	resp := sellableResponse(row)
	resp.Warning = s.catalogWarning(ctx, row)

	span.SetAttributes(attribute.String("sellable_product_id", sp.ID))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// catalogWarning checks the brand catalog and returns a human-readable
// mismatch warning, or nil when the catalog agrees. Lookup failures
// only suppress the warning, never the create.
func (s *catalogService) catalogWarning(ctx context.Context, row *repository.SellableProductRow) *string {
	entry, err := s.catalogRepo.GetBrandCatalogEntry(ctx, row.BrandID, row.ProductID)
	if err != nil {
		return nil
	}

	var msg string
	switch {
	case entry == nil:
		msg = fmt.Sprintf("Brand '%s' does not list '%s' in its catalog", row.BrandName, row.ProductName)
	case entry.Status == domain.CatalogDiscontinued:
		msg = fmt.Sprintf("Brand '%s' has discontinued '%s'", row.BrandName, row.ProductName)
	case entry.Status == domain.CatalogPlanned:
		msg = fmt.Sprintf("Brand '%s' lists '%s' as planned, not yet in production", row.BrandName, row.ProductName)
	default:
		return nil
	}
	return &msg
}

func sellableResponse(row *repository.SellableProductRow) *dto.SellableProductResponse {
	return &dto.SellableProductResponse{
		ID:              row.ID,
		ProductID:       row.ProductID,
		BrandID:         row.BrandID,
		SupermarketID:   row.SupermarketID,
		ProductName:     row.ProductName,
		BrandName:       row.BrandName,
		SupermarketName: row.SupermarketName,
	}
}

func (s *catalogService) ListSellableProducts(ctx context.Context, supermarketID, productID string) ([]dto.SellableProductResponse, error) {
	rows, err := s.catalogRepo.ListSellableProducts(ctx, supermarketID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SellableProductResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *sellableResponse(&rows[i]))
	}
	return out, nil
}

func (s *catalogService) DeleteSellableProduct(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteSellableProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSellableProductNotFound
	}
	return nil
}

func (s *catalogService) CreateSellableProductUnit(ctx context.Context, req *dto.SellableProductUnitRequest) error {
	spu := &domain.SellableProductUnit{
		ID:                uuid.New().String(),
		SellableProductID: req.SellableProductID,
		UnitID:            req.UnitID,
	}
	if err := s.catalogRepo.CreateSellableProductUnit(ctx, spu); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return domain.ErrSellableProductNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListSellableProductUnits(ctx context.Context, sellableProductID string) ([]dto.SellableProductUnitResponse, error) {
	rows, err := s.catalogRepo.ListSellableProductUnits(ctx, sellableProductID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SellableProductUnitResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SellableProductUnitResponse{
			ID:                r.ID,
			SellableProductID: r.SellableProductID,
			UnitID:            r.UnitID,
			UnitName:          r.UnitName,
			UnitAbbreviation:  r.UnitAbbreviation,
		})
	}
	return out, nil
}

func (s *catalogService) DeleteSellableProductUnit(ctx context.Context, id string) error {
	deleted, err := s.catalogRepo.DeleteSellableProductUnit(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUnitNotFound
	}
	return nil
}

func (s *catalogService) UpsertBrandCatalogEntry(ctx context.Context, req *dto.BrandCatalogRequest) (*dto.BrandCatalogResponse, error) {
	status := domain.CatalogStatus(req.Status)
	if status == "" {
		status = domain.CatalogActive
	}

	e := &domain.BrandCatalogEntry{
		ID:        uuid.New().String(),
		BrandID:   req.BrandID,
		ProductID: req.ProductID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := s.catalogRepo.UpsertBrandCatalogEntry(ctx, e); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, err
	}

	return &dto.BrandCatalogResponse{
		ID:        e.ID,
		BrandID:   e.BrandID,
		ProductID: e.ProductID,
		Status:    string(e.Status),
	}, nil
}

func (s *catalogService) ListBrandCatalog(ctx context.Context, brandID string) ([]dto.BrandCatalogResponse, error) {
	rows, err := s.catalogRepo.ListBrandCatalog(ctx, brandID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandCatalogResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BrandCatalogResponse{
			ID:          r.ID,
			BrandID:     r.BrandID,
			ProductID:   r.ProductID,
			BrandName:   r.BrandName,
			ProductName: r.ProductName,
			Status:      string(r.Status),
		})
	}
	return out, nil
}
