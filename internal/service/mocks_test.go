package service

import (
	"context"
	"sort"
	"time"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/repository"
)

// mockUserRepository is a map-backed UserRepository
type mockUserRepository struct {
	users       map[string]*domain.User
	emailIndex  map[string]*domain.User
	history     map[string][]domain.PointEntry
	createError error
	pointsError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
		history:    make(map[string][]domain.PointEntry),
	}
}

func (r *mockUserRepository) add(user *domain.User) {
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	r.add(user)
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.users[id], nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.emailIndex[email], nil
}

func (r *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, exists := r.emailIndex[email]
	return exists, nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.add(user)
	return nil
}

func (r *mockUserRepository) AddPoints(ctx context.Context, userID string, points int, reason string) error {
	if r.pointsError != nil {
		return r.pointsError
	}
	if user, ok := r.users[userID]; ok {
		user.Points += points
	}
	r.history[userID] = append(r.history[userID], domain.PointEntry{
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *mockUserRepository) PointHistory(ctx context.Context, userID string, limit int) ([]domain.PointEntry, error) {
	entries := r.history[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (r *mockUserRepository) CountWithMorePoints(ctx context.Context, points int) (int, error) {
	count := 0
	for _, user := range r.users {
		if user.Points > points {
			count++
		}
	}
	return count, nil
}

func (r *mockUserRepository) TopByPoints(ctx context.Context, limit int) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Points > users[j].Points })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

// mockSessionRepository is a map-backed GoogleSessionRepository
type mockSessionRepository struct {
	sessions map[string]string
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]string)}
}

func (r *mockSessionRepository) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	r.sessions[token] = userID
	return nil
}

func (r *mockSessionRepository) Consume(ctx context.Context, token string) (string, error) {
	userID, ok := r.sessions[token]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return userID, nil
}

// mockGoogleProvider is a canned GoogleIdentityProvider
type mockGoogleProvider struct {
	identity    *domain.User
	exchangeErr error
}

func (p *mockGoogleProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (p *mockGoogleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &GoogleIdentity{
		Subject: "google-sub",
		Email:   p.identity.Email,
		Name:    p.identity.Name,
		Picture: p.identity.Picture,
	}, nil
}

// mockPriceRepository captures created prices and serves canned reads
type mockPriceRepository struct {
	created []*domain.Price

	latestBySellable map[string]*domain.Price
	latestForProduct map[string]*domain.Price
	rows             []repository.PriceRow
	history          []domain.Price
	comparison       []repository.ComparisonRow
	total            int
	createError      error
}

func newMockPriceRepository() *mockPriceRepository {
	return &mockPriceRepository{
		latestBySellable: make(map[string]*domain.Price),
		latestForProduct: make(map[string]*domain.Price),
	}
}

func (r *mockPriceRepository) Create(ctx context.Context, p *domain.Price) error {
	if r.createError != nil {
		return r.createError
	}
	r.created = append(r.created, p)
	return nil
}

func (r *mockPriceRepository) List(ctx context.Context, sellableProductID string, limit int) ([]repository.PriceRow, error) {
	return r.rows, nil
}

func (r *mockPriceRepository) LatestBySellable(ctx context.Context, sellableProductID string) (*domain.Price, error) {
	return r.latestBySellable[sellableProductID], nil
}

func (r *mockPriceRepository) LatestForSellables(ctx context.Context, ids []string) (map[string]*domain.Price, error) {
	out := make(map[string]*domain.Price)
	for _, id := range ids {
		if p, ok := r.latestBySellable[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *mockPriceRepository) LatestForProduct(ctx context.Context, productID, supermarketID string) (*domain.Price, error) {
	return r.latestForProduct[productID], nil
}

func (r *mockPriceRepository) LatestForProducts(ctx context.Context, productIDs []string) (map[string]*domain.Price, error) {
	out := make(map[string]*domain.Price)
	for _, id := range productIDs {
		if p, ok := r.latestForProduct[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *mockPriceRepository) HistoryBySellable(ctx context.Context, sellableProductID string, limit int) ([]domain.Price, error) {
	return r.history, nil
}

func (r *mockPriceRepository) HistoryForProduct(ctx context.Context, productID, supermarketID string, limit int) ([]domain.Price, error) {
	return r.history, nil
}

func (r *mockPriceRepository) LatestPerSupermarket(ctx context.Context, productID string) ([]repository.ComparisonRow, error) {
	return r.comparison, nil
}

func (r *mockPriceRepository) Count(ctx context.Context) (int, error) {
	return r.total, nil
}

// mockAlertRepository serves canned matching alerts and records
// trigger flips
type mockAlertRepository struct {
	alerts    map[string]*domain.Alert
	rows      []repository.AlertRow
	matching  []domain.Alert
	triggered []string
}

func newMockAlertRepository() *mockAlertRepository {
	return &mockAlertRepository{alerts: make(map[string]*domain.Alert)}
}

func (r *mockAlertRepository) Create(ctx context.Context, a *domain.Alert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *mockAlertRepository) ListByUser(ctx context.Context, userID string) ([]repository.AlertRow, error) {
	return r.rows, nil
}

func (r *mockAlertRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	alert, ok := r.alerts[id]
	if !ok || alert.UserID != userID {
		return false, nil
	}
	delete(r.alerts, id)
	return true, nil
}

func (r *mockAlertRepository) MatchingForProduct(ctx context.Context, productID, supermarketID string) ([]domain.Alert, error) {
	return r.matching, nil
}

func (r *mockAlertRepository) MarkTriggered(ctx context.Context, id string) error {
	r.triggered = append(r.triggered, id)
	if alert, ok := r.alerts[id]; ok {
		alert.Triggered = true
	}
	return nil
}

// mockNotificationRepository stores notifications in a slice
type mockNotificationRepository struct {
	notifications []*domain.Notification
	pruned        int64
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{}
}

func (r *mockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *mockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *mockNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *mockNotificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *mockNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []*domain.Notification
	var removed int64
	for _, n := range r.notifications {
		if n.Read && n.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	r.pruned += removed
	return removed, nil
}

// mockShoppingListRepository is a map-backed ShoppingListRepository
type mockShoppingListRepository struct {
	lists map[string]*domain.ShoppingList
	items map[string][]domain.ShoppingListItem
	names map[string]string // sellable product id -> "Product|Brand"
}

func newMockShoppingListRepository() *mockShoppingListRepository {
	return &mockShoppingListRepository{
		lists: make(map[string]*domain.ShoppingList),
		items: make(map[string][]domain.ShoppingListItem),
		names: make(map[string]string),
	}
}

func (r *mockShoppingListRepository) Create(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem) error {
	r.lists[list.ID] = list
	r.items[list.ID] = items
	return nil
}

func (r *mockShoppingListRepository) GetByID(ctx context.Context, id, userID string) (*repository.ShoppingListRow, error) {
	list, ok := r.lists[id]
	if !ok || list.UserID != userID {
		return nil, nil
	}
	return &repository.ShoppingListRow{ShoppingList: *list, SupermarketName: "Test Market"}, nil
}

func (r *mockShoppingListRepository) ListByUser(ctx context.Context, userID string) ([]repository.ShoppingListRow, error) {
	var out []repository.ShoppingListRow
	for _, list := range r.lists {
		if list.UserID == userID {
			out = append(out, repository.ShoppingListRow{ShoppingList: *list, SupermarketName: "Test Market"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockShoppingListRepository) Items(ctx context.Context, listID string) ([]repository.ShoppingListItemRow, error) {
	var out []repository.ShoppingListItemRow
	for _, item := range r.items[listID] {
		out = append(out, repository.ShoppingListItemRow{
			ShoppingListItem: item,
			ProductName:      r.names[item.SellableProductID],
		})
	}
	return out, nil
}

func (r *mockShoppingListRepository) Update(ctx context.Context, list *domain.ShoppingList, items []domain.ShoppingListItem, replaceItems bool) error {
	r.lists[list.ID] = list
	if replaceItems {
		r.items[list.ID] = items
	}
	return nil
}

func (r *mockShoppingListRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	list, ok := r.lists[id]
	if !ok || list.UserID != userID {
		return false, nil
	}
	delete(r.lists, id)
	delete(r.items, id)
	return true, nil
}

func (r *mockShoppingListRepository) MarkPurchased(ctx context.Context, listID, itemID string, price *float64) (bool, error) {
	items := r.items[listID]
	for i := range items {
		if items[i].ID == itemID {
			items[i].Purchased = true
			items[i].Price = price
			return true, nil
		}
	}
	return false, nil
}

// mockSocialRepository is a map-backed SocialRepository
type mockSocialRepository struct {
	posts     map[string]*domain.Post
	reactions map[string]*domain.Reaction // postID|userID
	comments  []*domain.Comment
}

func newMockSocialRepository() *mockSocialRepository {
	return &mockSocialRepository{
		posts:     make(map[string]*domain.Post),
		reactions: make(map[string]*domain.Reaction),
	}
}

func reactionKey(postID, userID string) string {
	return postID + "|" + userID
}

func (r *mockSocialRepository) CreatePost(ctx context.Context, p *domain.Post) error {
	r.posts[p.ID] = p
	return nil
}

func (r *mockSocialRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return r.posts[id], nil
}

func (r *mockSocialRepository) ListPosts(ctx context.Context, limit int) ([]repository.PostRow, error) {
	var out []repository.PostRow
	for _, post := range r.posts {
		out = append(out, repository.PostRow{Post: *post, AuthorName: "Tester"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockSocialRepository) GetReaction(ctx context.Context, postID, userID string) (*domain.Reaction, error) {
	return r.reactions[reactionKey(postID, userID)], nil
}

func (r *mockSocialRepository) SetReaction(ctx context.Context, reaction *domain.Reaction) error {
	r.reactions[reactionKey(reaction.PostID, reaction.UserID)] = reaction
	return nil
}

func (r *mockSocialRepository) DeleteReaction(ctx context.Context, postID, userID string) error {
	delete(r.reactions, reactionKey(postID, userID))
	return nil
}

func (r *mockSocialRepository) ReactionCounts(ctx context.Context, postID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, reaction := range r.reactions {
		if reaction.PostID == postID {
			counts[string(reaction.Reaction)]++
		}
	}
	return counts, nil
}

func (r *mockSocialRepository) ReactionCountsForPosts(ctx context.Context, postIDs []string) (map[string]map[string]int, error) {
	out := make(map[string]map[string]int)
	for _, id := range postIDs {
		counts, _ := r.ReactionCounts(ctx, id)
		if len(counts) > 0 {
			out[id] = counts
		}
	}
	return out, nil
}

func (r *mockSocialRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	r.comments = append(r.comments, c)
	return nil
}

func (r *mockSocialRepository) ListComments(ctx context.Context, postID string) ([]repository.CommentRow, error) {
	var out []repository.CommentRow
	for _, comment := range r.comments {
		if comment.PostID == postID {
			out = append(out, repository.CommentRow{Comment: *comment, AuthorName: "Tester"})
		}
	}
	return out, nil
}

// mockCatalogRepository is a map-backed CatalogRepository
type mockCatalogRepository struct {
	categories    map[string]*domain.Category
	brands        map[string]*domain.Brand
	supermarkets  map[string]*domain.Supermarket
	units         map[string]*domain.Unit
	products      map[string]*domain.Product
	sellables     map[string]*repository.SellableProductRow
	catalog       map[string]*domain.BrandCatalogEntry // brandID|productID
	productUnits  map[string][]domain.Unit
	sellableUnits map[string][]repository.SellableUnitRow
	searchRows    []repository.ProductRow
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{
		categories:    make(map[string]*domain.Category),
		brands:        make(map[string]*domain.Brand),
		supermarkets:  make(map[string]*domain.Supermarket),
		units:         make(map[string]*domain.Unit),
		products:      make(map[string]*domain.Product),
		sellables:     make(map[string]*repository.SellableProductRow),
		catalog:       make(map[string]*domain.BrandCatalogEntry),
		productUnits:  make(map[string][]domain.Unit),
		sellableUnits: make(map[string][]repository.SellableUnitRow),
	}
}

func (r *mockCatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *mockCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *mockCatalogRepository) UpdateCategory(ctx context.Context, id, name string) (bool, error) {
	c, ok := r.categories[id]
	if ok {
		c.Name = name
	}
	return ok, nil
}

func (r *mockCatalogRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	_, ok := r.categories[id]
	delete(r.categories, id)
	return ok, nil
}

func (r *mockCatalogRepository) CreateBrand(ctx context.Context, b *domain.Brand) error {
	r.brands[b.ID] = b
	return nil
}

func (r *mockCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var out []domain.Brand
	for _, b := range r.brands {
		out = append(out, *b)
	}
	return out, nil
}

func (r *mockCatalogRepository) UpdateBrand(ctx context.Context, id, name string) (bool, error) {
	b, ok := r.brands[id]
	if ok {
		b.Name = name
	}
	return ok, nil
}

func (r *mockCatalogRepository) DeleteBrand(ctx context.Context, id string) (bool, error) {
	_, ok := r.brands[id]
	delete(r.brands, id)
	return ok, nil
}

func (r *mockCatalogRepository) CreateSupermarket(ctx context.Context, s *domain.Supermarket) error {
	r.supermarkets[s.ID] = s
	return nil
}

func (r *mockCatalogRepository) ListSupermarkets(ctx context.Context) ([]domain.Supermarket, error) {
	var out []domain.Supermarket
	for _, s := range r.supermarkets {
		out = append(out, *s)
	}
	return out, nil
}

func (r *mockCatalogRepository) UpdateSupermarket(ctx context.Context, id, name string) (bool, error) {
	s, ok := r.supermarkets[id]
	if ok {
		s.Name = name
	}
	return ok, nil
}

func (r *mockCatalogRepository) DeleteSupermarket(ctx context.Context, id string) (bool, error) {
	_, ok := r.supermarkets[id]
	delete(r.supermarkets, id)
	return ok, nil
}

func (r *mockCatalogRepository) CreateUnit(ctx context.Context, u *domain.Unit) error {
	r.units[u.ID] = u
	return nil
}

func (r *mockCatalogRepository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	var out []domain.Unit
	for _, u := range r.units {
		out = append(out, *u)
	}
	return out, nil
}

func (r *mockCatalogRepository) UpdateUnit(ctx context.Context, u *domain.Unit) (bool, error) {
	_, ok := r.units[u.ID]
	if ok {
		r.units[u.ID] = u
	}
	return ok, nil
}

func (r *mockCatalogRepository) DeleteUnit(ctx context.Context, id string) (bool, error) {
	_, ok := r.units[id]
	delete(r.units, id)
	return ok, nil
}

func (r *mockCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *mockCatalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return r.products[id], nil
}

func (r *mockCatalogRepository) ListProducts(ctx context.Context, categoryID string) ([]repository.ProductRow, error) {
	var out []repository.ProductRow
	for _, p := range r.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, repository.ProductRow{Product: *p})
		}
	}
	return out, nil
}

func (r *mockCatalogRepository) SearchProducts(ctx context.Context, query, categoryID, brandID string) ([]repository.ProductRow, error) {
	return r.searchRows, nil
}

func (r *mockCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) (bool, error) {
	_, ok := r.products[p.ID]
	if ok {
		r.products[p.ID] = p
	}
	return ok, nil
}

func (r *mockCatalogRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	_, ok := r.products[id]
	delete(r.products, id)
	return ok, nil
}

func (r *mockCatalogRepository) CountProducts(ctx context.Context) (int, error) {
	return len(r.products), nil
}

func (r *mockCatalogRepository) CreateProductUnit(ctx context.Context, pu *domain.ProductUnit) error {
	if u, ok := r.units[pu.UnitID]; ok {
		r.productUnits[pu.ProductID] = append(r.productUnits[pu.ProductID], *u)
	}
	return nil
}

func (r *mockCatalogRepository) ListProductUnits(ctx context.Context, productID string) ([]domain.Unit, error) {
	return r.productUnits[productID], nil
}

func (r *mockCatalogRepository) CreateSellableProduct(ctx context.Context, sp *domain.SellableProduct) error {
	r.sellables[sp.ID] = &repository.SellableProductRow{SellableProduct: *sp}
	return nil
}

func (r *mockCatalogRepository) GetSellableProductRow(ctx context.Context, id string) (*repository.SellableProductRow, error) {
	return r.sellables[id], nil
}

func (r *mockCatalogRepository) ListSellableProducts(ctx context.Context, supermarketID, productID string) ([]repository.SellableProductRow, error) {
	var out []repository.SellableProductRow
	for _, row := range r.sellables {
		if supermarketID != "" && row.SupermarketID != supermarketID {
			continue
		}
		if productID != "" && row.ProductID != productID {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (r *mockCatalogRepository) DeleteSellableProduct(ctx context.Context, id string) (bool, error) {
	_, ok := r.sellables[id]
	delete(r.sellables, id)
	return ok, nil
}

func (r *mockCatalogRepository) CreateSellableProductUnit(ctx context.Context, spu *domain.SellableProductUnit) error {
	row := repository.SellableUnitRow{SellableProductUnit: *spu}
	if u, ok := r.units[spu.UnitID]; ok {
		row.UnitName = u.Name
		row.UnitAbbreviation = u.Abbreviation
	}
	r.sellableUnits[spu.SellableProductID] = append(r.sellableUnits[spu.SellableProductID], row)
	return nil
}

func (r *mockCatalogRepository) ListSellableProductUnits(ctx context.Context, sellableProductID string) ([]repository.SellableUnitRow, error) {
	return r.sellableUnits[sellableProductID], nil
}

func (r *mockCatalogRepository) DeleteSellableProductUnit(ctx context.Context, id string) (bool, error) {
	for spID, rows := range r.sellableUnits {
		for i, row := range rows {
			if row.ID == id {
				r.sellableUnits[spID] = append(rows[:i], rows[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *mockCatalogRepository) UpsertBrandCatalogEntry(ctx context.Context, e *domain.BrandCatalogEntry) error {
	r.catalog[e.BrandID+"|"+e.ProductID] = e
	return nil
}

func (r *mockCatalogRepository) ListBrandCatalog(ctx context.Context, brandID string) ([]repository.BrandCatalogRow, error) {
	var out []repository.BrandCatalogRow
	for _, e := range r.catalog {
		if brandID == "" || e.BrandID == brandID {
			out = append(out, repository.BrandCatalogRow{BrandCatalogEntry: *e})
		}
	}
	return out, nil
}

func (r *mockCatalogRepository) GetBrandCatalogEntry(ctx context.Context, brandID, productID string) (*domain.BrandCatalogEntry, error) {
	return r.catalog[brandID+"|"+productID], nil
}
