package workflow

import "github.com/mmeshcher/santana-waiter/internal/model"

// View содержит снимок состояния сценария для экранов.
type View struct {
	State       State            `json:"state"`
	Outcome     State            `json:"outcome,omitempty"`
	UserName    string           `json:"user_name,omitempty"`
	UserEmail   string           `json:"user_email,omitempty"`
	Order       *model.Order     `json:"order,omitempty"`
	Categories  []model.Category `json:"categories"`
	Category    *model.Category  `json:"category,omitempty"`
	Products    []model.Product  `json:"products"`
	Product     *model.Product   `json:"product,omitempty"`
	CanFinalize bool             `json:"can_finalize"`
	CanDiscard  bool             `json:"can_discard"`
}

// Snapshot возвращает копию текущего состояния.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:      s.state,
		Outcome:    s.outcome,
		UserName:   s.user.Name,
		UserEmail:  s.user.Email,
		Categories: append([]model.Category{}, s.categories...),
		Products:   append([]model.Product{}, s.products...),
	}
	if s.order != nil {
		order := cloneOrder(*s.order)
		v.Order = &order
		v.CanFinalize = s.state == StateOrderActive && len(order.Items) > 0 && s.pending == 0
		v.CanDiscard = s.state == StateOrderActive && len(order.Items) == 0 && s.pending == 0
	}
	if s.category != nil {
		c := *s.category
		v.Category = &c
	}
	if s.product != nil {
		p := *s.product
		v.Product = &p
	}
	return v
}

// State возвращает текущую фазу сценария.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
