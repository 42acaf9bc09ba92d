package menu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noirmenu/cardapio-digital/internal/model"
)

// Aggregator mantém o view-model do cardápio em memória. A cada evento de
// mudança nas tabelas de origem (via Notify) a leitura completa é refeita,
// sem patch incremental. Assinantes recebem o nome da tabela alterada.
type Aggregator struct {
	src Source
	log *zap.Logger

	events chan string
	retry  time.Duration

	mu      sync.RWMutex
	view    *View
	lastErr error

	subMu sync.Mutex
	subs  map[chan string]struct{}
}

func NewAggregator(src Source, log *zap.Logger) *Aggregator {
	return &Aggregator{
		src:    src,
		log:    log,
		events: make(chan string, 16),
		retry:  30 * time.Second,
		subs:   make(map[chan string]struct{}),
	}
}

// Notify registra um evento de mudança na tabela informada. Nunca bloqueia:
// eventos em excesso são descartados, o próximo refetch cobre todos.
func (a *Aggregator) Notify(table string) {
	select {
	case a.events <- table:
	default:
	}
}

// Run faz a leitura inicial e então refaz a leitura a cada evento, até o
// contexto ser cancelado. Enquanto nenhuma leitura foi concluída, tenta
// de novo periodicamente: se o banco estava fora do ar na subida, o
// cardápio real substitui o estático assim que ele voltar, mesmo sem
// nenhuma tabela mudar.
func (a *Aggregator) Run(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("leitura inicial do cardápio falhou", zap.Error(err))
	}
	ticker := time.NewTicker(a.retry)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case table := <-a.events:
			if err := a.Refresh(ctx); err != nil {
				a.log.Warn("releitura do cardápio falhou",
					zap.String("table", table), zap.Error(err))
				continue
			}
			a.broadcast(table)
		case <-ticker.C:
			a.mu.RLock()
			pending := a.view == nil
			a.mu.RUnlock()
			if !pending {
				continue
			}
			if err := a.Refresh(ctx); err != nil {
				a.log.Warn("nova tentativa de leitura do cardápio falhou", zap.Error(err))
				continue
			}
			a.broadcast("menu")
		}
	}
}

// Refresh busca categorias, produtos disponíveis e configuração em
// paralelo e monta o novo view-model. Em caso de falha o último view
// válido é preservado e o erro fica registrado.
func (a *Aggregator) Refresh(ctx context.Context) error {
	var (
		categories []model.Category
		products   []model.Product
		cfg        *model.MenuConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = a.src.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = a.src.AvailableProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = a.src.Config(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		a.mu.Lock()
		a.lastErr = fmt.Errorf("falha ao buscar dados do cardápio: %w", err)
		err = a.lastErr
		a.mu.Unlock()
		return err
	}

	view := buildView(categories, products, cfg)

	a.mu.Lock()
	a.view = view
	a.lastErr = nil
	a.mu.Unlock()
	return nil
}

// View devolve o último view-model montado. Quando nenhuma leitura foi
// concluída, devolve (nil, erro) e cabe ao chamador cair nos padrões
// estáticos.
func (a *Aggregator) View() (*View, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.view == nil {
		return nil, a.lastErr
	}
	return a.view, nil
}

// Subscribe registra um assinante de eventos de mudança. O canal deve ser
// devolvido com Unsubscribe quando o consumidor for encerrado.
func (a *Aggregator) Subscribe() chan string {
	ch := make(chan string, 4)
	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()
	return ch
}

func (a *Aggregator) Unsubscribe(ch chan string) {
	a.subMu.Lock()
	delete(a.subs, ch)
	a.subMu.Unlock()
}

func (a *Aggregator) broadcast(table string) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	for ch := range a.subs {
		select {
		case ch <- table:
		default:
		}
	}
}

// buildView aplica a regra de precedência: dados remotos quando não
// vazios, senão o conjunto estático embutido.
func buildView(categories []model.Category, products []model.Product, cfg *model.MenuConfig) *View {
	view := &View{
		PaymentMethods: PaymentMethods(),
	}

	if len(categories) > 0 {
		view.Categories = make([]CategoryView, 0, len(categories)+1)
		view.Categories = append(view.Categories, CategoryView{ID: "all", Name: "Todos"})
		for _, c := range categories {
			view.Categories = append(view.Categories, CategoryView{ID: c.ID, Name: c.Name})
		}
	} else {
		view.Categories = append([]CategoryView(nil), fallbackCategories...)
	}

	if len(products) > 0 {
		view.Products = make([]ProductView, 0, len(products))
		for _, p := range products {
			view.Products = append(view.Products, ProductView{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Category:    p.CategoryID,
				Image:       p.ImageURL,
			})
		}
	} else {
		view.Products = append([]ProductView(nil), fallbackProducts...)
	}

	whatsapp := PlaceholderWhatsApp
	if cfg != nil && cfg.WhatsAppNumber != "" {
		whatsapp = cfg.WhatsAppNumber
	}
	view.RestaurantConfig = RestaurantConfig{
		Name:           RestaurantName,
		Tagline:        RestaurantTagline,
		WhatsAppNumber: whatsapp,
		Schedule:       defaultSchedule,
	}

	if cfg != nil {
		view.DeliveryConfig = DeliveryConfig{
			MinimumOrder:        cfg.MinimumOrder,
			MinimumOrderEnabled: cfg.MinimumOrder > 0,
			EstimatedTime:       estimatedDeliveryTime,
		}
		for i, name := range cfg.Neighborhoods {
			view.Neighborhoods = append(view.Neighborhoods, Neighborhood{
				ID:          fmt.Sprintf("n-%d", i),
				Name:        name,
				DeliveryFee: 0,
			})
		}
	} else {
		view.DeliveryConfig = fallbackDeliveryConfig
	}
	if len(view.Neighborhoods) == 0 {
		view.Neighborhoods = append([]Neighborhood(nil), fallbackNeighborhoods...)
	}

	return view
}
