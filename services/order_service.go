package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type OrderService interface {
	Create(ctx context.Context, restaurantID uint, req dto.OrderRequest) (*dto.OrderCreated, error)
	GetByID(ctx context.Context, restaurantID, orderID uint) (*dto.OrderResponse, error)
	ListByRestaurant(ctx context.Context, restaurantID uint) ([]dto.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, restaurantID, orderID uint, status string) (*dto.OrderResponse, error)
	UpdateLineStatus(ctx context.Context, restaurantID, orderID, dishID uint, status string) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, restaurantID, orderID uint, dishID *uint) (*dto.OrderResponse, error)
}

type orderService struct {
	orders repositories.OrderRepository
	dishes repositories.DishRepository
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(orders repositories.OrderRepository, dishes repositories.DishRepository, events EventPublisher) OrderService {
	return &orderService{
		orders: orders,
		dishes: dishes,
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

// Create inserts the order with its lines and takes the ordered
// quantities out of stock. Dish rows stay locked until commit.
func (s *orderService) Create(ctx context.Context, restaurantID uint, req dto.OrderRequest) (*dto.OrderCreated, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	items := req.MergedLines()

	var order models.Order
	err := repositories.RunInTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		order = models.Order{CustomerName: req.CustomerName, CreatedAt: s.now()}
		if err := s.orders.CreateHeader(tx, &order); err != nil {
			return err
		}

		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.DishID)
		}
		dishes, err := s.dishes.FindByIDsForUpdate(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]models.Dish, len(dishes))
		for _, d := range dishes {
			byID[d.ID] = d
		}

		lines := make([]models.OrderLine, 0, len(items))
		for _, it := range items {
			dish, ok := byID[it.DishID]
			if !ok || dish.RestaurantID != restaurantID {
				return utils.NewNotFoundError(fmt.Sprintf("dish %d not found", it.DishID))
			}
			if it.Quantity > dish.Stock {
				return utils.NewValidationError(fmt.Sprintf(
					"insufficient stock for %s: requested %d, available %d", dish.Name, it.Quantity, dish.Stock))
			}
			if err := s.dishes.AdjustStock(tx, dish.ID, -it.Quantity); err != nil {
				return err
			}
			lines = append(lines, models.OrderLine{
				OrderID:  order.ID,
				DishID:   dish.ID,
				Quantity: it.Quantity,
				Status:   models.LinePending,
				Total:    dish.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			})
		}
		return s.orders.CreateLines(tx, lines)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"restaurant_id": restaurantID,
		"lines":         len(items),
	}).Info("order created")

	created := &dto.OrderCreated{ID: order.ID, CustomerName: order.CustomerName, Status: models.LinePending}
	s.events.Publish(restaurantID, kds.EventOrderCreated, created)
	return created, nil
}

// owned loads the order keeping only the lines of restaurantID. An order
// with none of them is reported as missing.
func (s *orderService) owned(ctx context.Context, restaurantID, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoErr(err, "order not found")
	}
	lines := order.Lines[:0]
	for _, l := range order.Lines {
		if l.Dish != nil && l.Dish.RestaurantID == restaurantID {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		if len(order.Lines) == 0 {
			return nil, utils.NewNotFoundError("order not found")
		}
		return nil, utils.NewForbiddenError("order belongs to another restaurant")
	}
	order.Lines = lines
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, restaurantID, orderID uint) (*dto.OrderResponse, error) {
	order, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(*order)
	return &resp, nil
}

func (s *orderService) ListByRestaurant(ctx context.Context, restaurantID uint) ([]dto.OrderResponse, error) {
	orders, err := s.orders.FindAllByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// UpdateOrderStatus sets every open line of the order to status. An
// order without open lines is reported as not found.
// Cancelling goes through Cancel so stock is returned.
func (s *orderService) UpdateOrderStatus(ctx context.Context, restaurantID, orderID uint, status string) (*dto.OrderResponse, error) {
	req := dto.StatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if status == models.LineCancelled {
		return s.Cancel(ctx, restaurantID, orderID, nil)
	}
	order, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	mine := dishSet(order)

	err = repositories.RunInTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		lines, err := s.orders.FindLinesForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return utils.NewNotFoundError("order not found")
		}
		updated := 0
		for _, l := range lines {
			if l.Status == models.LineCancelled || !mine[l.DishID] {
				continue
			}
			if err := s.orders.UpdateLineStatus(tx, orderID, l.DishID, status); err != nil {
				return err
			}
			updated++
		}
		if updated == 0 {
			return utils.NewNotFoundError("order has no open lines")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.afterChange(ctx, restaurantID, orderID, kds.EventOrderUpdated)
}

// UpdateLineStatus sets the status of one line. Cancelled lines are
// final.
func (s *orderService) UpdateLineStatus(ctx context.Context, restaurantID, orderID, dishID uint, status string) (*dto.OrderResponse, error) {
	req := dto.StatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if status == models.LineCancelled {
		return s.Cancel(ctx, restaurantID, orderID, &dishID)
	}
	order, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	mine := dishSet(order)

	err = repositories.RunInTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		line, err := s.lockedLine(tx, orderID, dishID)
		if err != nil {
			return err
		}
		if !mine[line.DishID] {
			return utils.NewForbiddenError("order line belongs to another restaurant")
		}
		if line.Status == models.LineCancelled {
			return utils.NewConflictError("order line is cancelled")
		}
		return s.orders.UpdateLineStatus(tx, orderID, dishID, status)
	})
	if err != nil {
		return nil, err
	}
	return s.afterChange(ctx, restaurantID, orderID, kds.EventOrderUpdated)
}

func dishSet(order *models.Order) map[uint]bool {
	set := make(map[uint]bool, len(order.Lines))
	for _, l := range order.Lines {
		set[l.DishID] = true
	}
	return set
}

func (s *orderService) lockedLine(tx *gorm.DB, orderID, dishID uint) (*models.OrderLine, error) {
	lines, err := s.orders.FindLinesForUpdate(tx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].DishID == dishID {
			return &lines[i], nil
		}
	}
	return nil, utils.NewNotFoundError(fmt.Sprintf("dish %d is not part of order %d", dishID, orderID))
}

// Cancel cancels one line when dishID is set, otherwise every open line
// of the order. Stock comes back only for lines that were still pending,
// delivered food is not restocked.
func (s *orderService) Cancel(ctx context.Context, restaurantID, orderID uint, dishID *uint) (*dto.OrderResponse, error) {
	order, err := s.owned(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	mine := dishSet(order)

	err = repositories.RunInTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		var targets []models.OrderLine
		if dishID != nil {
			line, err := s.lockedLine(tx, orderID, *dishID)
			if err != nil {
				return err
			}
			if !mine[line.DishID] {
				return utils.NewForbiddenError("order line belongs to another restaurant")
			}
			if line.Status == models.LineCancelled {
				return utils.NewConflictError("order line is already cancelled")
			}
			targets = append(targets, *line)
		} else {
			lines, err := s.orders.FindLinesForUpdate(tx, orderID)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return utils.NewNotFoundError("order not found")
			}
			for _, l := range lines {
				if l.Status != models.LineCancelled && mine[l.DishID] {
					targets = append(targets, l)
				}
			}
			if len(targets) == 0 {
				return utils.NewConflictError("order is already cancelled")
			}
		}

		for _, l := range targets {
			if err := s.orders.UpdateLineStatus(tx, orderID, l.DishID, models.LineCancelled); err != nil {
				return err
			}
			if l.Status != models.LinePending {
				continue
			}
			if err := s.dishes.AdjustStock(tx, l.DishID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := utils.InfoLogger.WithField("order_id", orderID)
	if dishID != nil {
		entry = entry.WithField("dish_id", *dishID)
	}
	entry.Info("order cancelled")
	return s.afterChange(ctx, restaurantID, orderID, kds.EventOrderCancelled)
}

func (s *orderService) afterChange(ctx context.Context, restaurantID, orderID uint, event string) (*dto.OrderResponse, error) {
	resp, err := s.GetByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(restaurantID, event, resp)
	return resp, nil
}
