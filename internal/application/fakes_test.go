package application

import (
	"context"
	"sync"
	"time"

	"github.com/smartdine/restaurant-service/internal/domain"
	"github.com/smartdine/restaurant-service/pkg/locking"
	"github.com/smartdine/restaurant-service/pkg/logging"
)

// In-memory fakes shared by the service tests. They copy aggregates on
// read and write so tests observe repository semantics, not pointer
// aliasing, and they are safe for concurrent use.

type fakeIngredientRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Ingredient
	saveErr   error
	findErr   error
	updateErr error
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{items: make(map[string]*domain.Ingredient)}
}

func cloneIngredient(i *domain.Ingredient) *domain.Ingredient {
	c := *i
	c.DomainEvents = nil
	return &c
}

func (f *fakeIngredientRepo) Save(ctx context.Context, ingredient *domain.Ingredient) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[ingredient.ID] = cloneIngredient(ingredient)
	return nil
}

func (f *fakeIngredientRepo) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[ingredient.ID] = cloneIngredient(ingredient)
	return nil
}

func (f *fakeIngredientRepo) FindByID(ctx context.Context, id string) (*domain.Ingredient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return cloneIngredient(item), nil
}

func (f *fakeIngredientRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Ingredient, 0, len(ids))
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			results = append(results, cloneIngredient(item))
		}
	}
	return results, nil
}

func (f *fakeIngredientRepo) FindByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.Name == name {
			return cloneIngredient(item), nil
		}
	}
	return nil, nil
}

func (f *fakeIngredientRepo) FindAll(ctx context.Context) ([]*domain.Ingredient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Ingredient, 0, len(f.items))
	for _, item := range f.items {
		results = append(results, cloneIngredient(item))
	}
	return results, nil
}

func (f *fakeIngredientRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeIngredientRepo) quantity(id string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Quantity
}

type fakeLedgerRepo struct {
	mu        sync.Mutex
	entries   []*domain.StockLedgerEntry
	appendErr error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make([]*domain.StockLedgerEntry, 0)}
}

func (f *fakeLedgerRepo) Append(ctx context.Context, entries ...*domain.StockLedgerEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLedgerRepo) FindByIngredient(ctx context.Context, ingredientID string, limit int64) ([]*domain.StockLedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.StockLedgerEntry, 0)
	// newest first
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].IngredientID == ingredientID {
			results = append(results, f.entries[i])
			if limit > 0 && int64(len(results)) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (f *fakeLedgerRepo) FindAll(ctx context.Context, limit int64) ([]*domain.StockLedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.StockLedgerEntry, 0)
	for i := len(f.entries) - 1; i >= 0; i-- {
		results = append(results, f.entries[i])
		if limit > 0 && int64(len(results)) >= limit {
			break
		}
	}
	return results, nil
}

func (f *fakeLedgerRepo) byAction(action domain.StockAction) []*domain.StockLedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.StockLedgerEntry, 0)
	for _, e := range f.entries {
		if e.Action == action {
			results = append(results, e)
		}
	}
	return results
}

type fakeRecipeRepo struct {
	mu   sync.Mutex
	rows map[string][]*domain.RecipeRequirement // keyed by menu item ID
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{rows: make(map[string][]*domain.RecipeRequirement)}
}

func (f *fakeRecipeRepo) Upsert(ctx context.Context, requirement *domain.RecipeRequirement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[requirement.MenuItemID]
	for idx, row := range rows {
		if row.IngredientID == requirement.IngredientID {
			rows[idx] = requirement
			return nil
		}
	}
	f.rows[requirement.MenuItemID] = append(rows, requirement)
	return nil
}

func (f *fakeRecipeRepo) Remove(ctx context.Context, menuItemID, ingredientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[menuItemID]
	for idx, row := range rows {
		if row.IngredientID == ingredientID {
			f.rows[menuItemID] = append(rows[:idx], rows[idx+1:]...)
			return nil
		}
	}
	return domain.ErrRecipeNotFound
}

func (f *fakeRecipeRepo) FindByMenuItem(ctx context.Context, menuItemID string) ([]*domain.RecipeRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.RecipeRequirement(nil), f.rows[menuItemID]...), nil
}

func (f *fakeRecipeRepo) FindByIngredient(ctx context.Context, ingredientID string) ([]*domain.RecipeRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.RecipeRequirement, 0)
	for _, rows := range f.rows {
		for _, row := range rows {
			if row.IngredientID == ingredientID {
				results = append(results, row)
			}
		}
	}
	return results, nil
}

type fakeMenuRepo struct {
	mu    sync.Mutex
	items map[string]*domain.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[string]*domain.MenuItem)}
}

func (f *fakeMenuRepo) Save(ctx context.Context, item *domain.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
	return nil
}

func (f *fakeMenuRepo) Update(ctx context.Context, item *domain.MenuItem) error {
	return f.Save(ctx, item)
}

func (f *fakeMenuRepo) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeMenuRepo) FindAll(ctx context.Context) ([]*domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.MenuItem, 0, len(f.items))
	for _, item := range f.items {
		results = append(results, item)
	}
	return results, nil
}

func (f *fakeMenuRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	saveErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Lines = append([]domain.OrderLine(nil), o.Lines...)
	c.DomainEvents = nil
	return &c
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	return f.Save(ctx, order)
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(order), nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		results = append(results, cloneOrder(order))
	}
	return results, nil
}

func (f *fakeOrderRepo) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Order, 0)
	for _, order := range f.orders {
		if order.Status == status {
			results = append(results, cloneOrder(order))
		}
	}
	return results, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart // keyed by session ID
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *cart
	c.Lines = append([]domain.CartLine(nil), cart.Lines...)
	f.carts[cart.SessionID] = &c
	return nil
}

func (f *fakeCartRepo) FindBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[sessionID]
	if !ok {
		return nil, nil
	}
	c := *cart
	c.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &c, nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for session, cart := range f.carts {
		if cart.ID == id {
			delete(f.carts, session)
			return nil
		}
	}
	return nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[string]*domain.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[string]*domain.Table)}
}

func (f *fakeTableRepo) Save(ctx context.Context, table *domain.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *table
	f.tables[table.ID] = &c
	return nil
}

func (f *fakeTableRepo) Update(ctx context.Context, table *domain.Table) error {
	return f.Save(ctx, table)
}

func (f *fakeTableRepo) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[id]
	if !ok {
		return nil, nil
	}
	c := *table
	return &c, nil
}

func (f *fakeTableRepo) FindAll(ctx context.Context) ([]*domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Table, 0, len(f.tables))
	for _, table := range f.tables {
		c := *table
		results = append(results, &c)
	}
	return results, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*domain.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]*domain.Reservation)}
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	c.DomainEvents = nil
	return &c
}

func (f *fakeReservationRepo) Save(ctx context.Context, reservation *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (f *fakeReservationRepo) Update(ctx context.Context, reservation *domain.Reservation) error {
	return f.Save(ctx, reservation)
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	return cloneReservation(reservation), nil
}

func (f *fakeReservationRepo) FindAll(ctx context.Context) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Reservation, 0, len(f.reservations))
	for _, reservation := range f.reservations {
		results = append(results, cloneReservation(reservation))
	}
	return results, nil
}

func (f *fakeReservationRepo) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Reservation, 0)
	for _, reservation := range f.reservations {
		if reservation.Status == status {
			results = append(results, cloneReservation(reservation))
		}
	}
	return results, nil
}

func (f *fakeReservationRepo) FindApprovedInWindow(ctx context.Context, tableID string, from, to time.Time, excludeID string) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make([]*domain.Reservation, 0)
	for _, reservation := range f.reservations {
		if reservation.TableID != tableID || reservation.Status != domain.ReservationApproved {
			continue
		}
		if excludeID != "" && reservation.ID == excludeID {
			continue
		}
		if reservation.BookingTime.After(from) && reservation.BookingTime.Before(to) {
			results = append(results, cloneReservation(reservation))
		}
	}
	return results, nil
}

// passTransactor executes the function directly; the fakes have no
// real transactions to coordinate
type passTransactor struct{}

func (passTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) byType(eventType string) []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]domain.DomainEvent, 0)
	for _, ev := range p.events {
		if ev.EventType() == eventType {
			results = append(results, ev)
		}
	}
	return results
}

func testLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig("test"))
}

// testEnv wires every service against fresh fakes
type testEnv struct {
	ingredients  *fakeIngredientRepo
	ledger       *fakeLedgerRepo
	recipeRepo   *fakeRecipeRepo
	menu         *fakeMenuRepo
	orderRepo    *fakeOrderRepo
	cartRepo     *fakeCartRepo
	tableRepo    *fakeTableRepo
	resRepo      *fakeReservationRepo
	publisher    *capturingPublisher
	inventory    *InventoryApplicationService
	recipes      *RecipeApplicationService
	availability *AvailabilityService
	stock        *StockTransactionService
	orders       *OrderApplicationService
	carts        *CartApplicationService
	reservations *ReservationApplicationService
}

func newTestEnv() *testEnv {
	logger := testLogger()
	env := &testEnv{
		ingredients: newFakeIngredientRepo(),
		ledger:      newFakeLedgerRepo(),
		recipeRepo:  newFakeRecipeRepo(),
		menu:        newFakeMenuRepo(),
		orderRepo:   newFakeOrderRepo(),
		cartRepo:    newFakeCartRepo(),
		tableRepo:   newFakeTableRepo(),
		resRepo:     newFakeReservationRepo(),
		publisher:   &capturingPublisher{},
	}

	env.inventory = NewInventoryApplicationService(env.ingredients, env.ledger, env.recipeRepo, passTransactor{}, env.publisher, logger)
	env.recipes = NewRecipeApplicationService(env.recipeRepo, env.menu, env.ingredients, logger)
	env.availability = NewAvailabilityService(env.recipes, env.ingredients, logger)
	env.stock = NewStockTransactionService(env.ingredients, env.ledger, env.recipes, passTransactor{}, locking.NewKeyedMutex(), env.publisher, nil, logger)
	env.orders = NewOrderApplicationService(env.orderRepo, env.menu, env.tableRepo, env.stock, locking.NewKeyedMutex(), nil, logger)
	env.carts = NewCartApplicationService(env.cartRepo, env.menu, env.orders, logger)
	env.reservations = NewReservationApplicationService(env.resRepo, env.tableRepo, locking.NewKeyedMutex(), nil, logger)
	return env
}

// seedPizzeria loads the canonical test fixture: flour and cheese in
// stock, a pizza that takes 200 flour and 100 cheese, and a pasta that
// takes 100 flour.
func (env *testEnv) seedPizzeria() (flourID, cheeseID, pizzaID, pastaID string) {
	ctx := context.Background()

	flour, _ := domain.NewIngredient("ing-flour", "Flour", domain.UnitGram, 1000, 300, 800, 0.05)
	cheese, _ := domain.NewIngredient("ing-cheese", "Cheese", domain.UnitGram, 500, 150, 400, 0.2)
	_ = env.ingredients.Save(ctx, flour)
	_ = env.ingredients.Save(ctx, cheese)

	pizza, _ := domain.NewMenuItem("menu-pizza", "Pizza", "", "mains", 12.5)
	pasta, _ := domain.NewMenuItem("menu-pasta", "Pasta", "", "mains", 9)
	_ = env.menu.Save(ctx, pizza)
	_ = env.menu.Save(ctx, pasta)

	pizzaFlour, _ := domain.NewRecipeRequirement("req-1", pizza.ID, flour.ID, 200)
	pizzaCheese, _ := domain.NewRecipeRequirement("req-2", pizza.ID, cheese.ID, 100)
	pastaFlour, _ := domain.NewRecipeRequirement("req-3", pasta.ID, flour.ID, 100)
	_ = env.recipeRepo.Upsert(ctx, pizzaFlour)
	_ = env.recipeRepo.Upsert(ctx, pizzaCheese)
	_ = env.recipeRepo.Upsert(ctx, pastaFlour)

	return flour.ID, cheese.ID, pizza.ID, pasta.ID
}
