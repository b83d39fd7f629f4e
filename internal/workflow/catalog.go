package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/santana-waiter/internal/model"
)

// LoadCategories загружает категории меню и выбирает первую.
func (s *Session) LoadCategories(ctx context.Context) error {
	s.mu.Lock()
	if err := s.activeLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	gen := s.generation
	s.mu.Unlock()

	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	categories, err := s.api.ListCategories(ctx, token)
	if err != nil {
		return s.fail(ctx, OpLoadCategories, err)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return ErrOrderChanged
	}
	s.categories = categories
	s.products = nil
	s.product = nil
	if len(categories) == 0 {
		s.category = nil
		s.productSeq++
		s.mu.Unlock()
		return nil
	}
	first := categories[0]
	s.category = &first
	s.productSeq++
	seq := s.productSeq
	s.mu.Unlock()

	return s.loadProducts(ctx, gen, seq, first.ID)
}

// SelectCategory выбирает категорию, сбрасывает выбранный продукт и загружает продукты категории.
func (s *Session) SelectCategory(ctx context.Context, categoryID string) error {
	s.mu.Lock()
	if err := s.activeLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	category, ok := findCategory(s.categories, categoryID)
	if !ok {
		s.mu.Unlock()
		return ErrUnknownCategory
	}
	s.category = &category
	s.products = nil
	s.product = nil
	s.productSeq++
	seq := s.productSeq
	gen := s.generation
	s.mu.Unlock()

	return s.loadProducts(ctx, gen, seq, category.ID)
}

// SelectProduct выбирает продукт из загруженного списка.
func (s *Session) SelectProduct(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return err
	}
	for _, p := range s.products {
		if p.ID == productID {
			product := p
			s.product = &product
			return nil
		}
	}
	return ErrUnknownProduct
}

// loadProducts применяет ответ только для последней выбранной категории.
func (s *Session) loadProducts(ctx context.Context, gen, seq uint64, categoryID string) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	products, err := s.api.ListProducts(ctx, token, categoryID)
	if err != nil {
		return s.fail(ctx, OpLoadProducts, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrOrderChanged
	}
	if s.productSeq != seq {
		s.logger.Debug("stale product list dropped", zap.String("category_id", categoryID))
		return nil
	}
	s.products = products
	if len(products) > 0 {
		first := products[0]
		s.product = &first
	} else {
		s.product = nil
	}
	return nil
}

func findCategory(categories []model.Category, id string) (model.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}
