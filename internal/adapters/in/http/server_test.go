package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/generated/servers"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_CreateOrder(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)

	f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.RestaurantID().IsEqual(o.RestaurantID()) &&
			cmd.TargetDate().Format("2006-01-02") == "2024-05-02" &&
			cmd.Actor().IsEqual(order.DefaultActor)
	})).Return(o, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"restaurantId":"`+o.RestaurantID().String()+`","date":"2024-05-02"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, `"`+o.Version().String()+`"`, rec.Header().Get("ETag"))

	body := decode[servers.Order](t, rec)
	assert.Equal(t, o.ID().Google(), body.Id)
	assert.Equal(t, servers.OrderStateNEW, body.OrderState)
	assert.Equal(t, "2024-05-02", body.Date.String())
	assert.Empty(t, body.OrderPositions)
}

func TestServer_CreateOrder_RejectsIncompleteBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"restaurantId":"`+kernel.NewUUID().String()+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[servers.Error](t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.NotEmpty(t, body.Message)
	f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_CreateOrder_DuplicateIsConflict(t *testing.T) {
	f := newFixture(t)

	f.create.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewAlreadyExistsError("order", "restaurant already has a live order")).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"restaurantId":"`+kernel.NewUUID().String()+`","date":"2024-05-02"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_ListOrders(t *testing.T) {
	f := newFixture(t)
	first, second := newOrder(t), newOrder(t)

	f.getOrders.On("Handle", mock.Anything, mock.Anything).Return([]*order.Order{first, second}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]servers.Order](t, rec)
	require.Len(t, body, 2)
	assert.Equal(t, first.ID().Google(), body[0].Id)
	assert.Equal(t, second.ID().Google(), body[1].Id)
}

func TestServer_GetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()

	f.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[servers.Error](t, rec).Code)
}

func TestServer_GetOrder_MalformedID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, decode[servers.Error](t, rec).Code)
}

func TestServer_GetOrder_RendersPositions(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	price, err := kernel.MoneyFromString("8.5")
	require.NoError(t, err)
	p, err := o.AddPosition(kernel.NewUUID(), order.PositionData{Name: "Ada", Meal: "Pizza", Price: &price}, order.DefaultActor, testNow)
	require.NoError(t, err)

	f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(o, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[servers.Order](t, rec)
	require.Len(t, body.OrderPositions, 1)
	pos := body.OrderPositions[0]
	assert.Equal(t, p.ID().Google(), pos.Id)
	assert.Equal(t, 1, pos.Index)
	assert.Equal(t, "Pizza", pos.Meal)
	require.NotNil(t, pos.Price)
	assert.Equal(t, "8.50", *pos.Price)
	assert.Nil(t, pos.Paid)
}

func TestServer_LockOrder_PassesIfMatchVersion(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	version := kernel.NewUUID()

	f.changeState.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeOrderStateCommand) bool {
		return cmd.OrderID().IsEqual(o.ID()) &&
			cmd.Transition() == order.Lock &&
			cmd.Version() != nil && cmd.Version().IsEqual(version)
	})).Return(o, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/lock", "", "If-Match", `"`+version.String()+`"`)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `"`+o.Version().String()+`"`, rec.Header().Get("ETag"))
}

func TestServer_StateEndpointsMapToTransitions(t *testing.T) {
	tests := map[string]order.Transition{
		"lock":      order.Lock,
		"reopen":    order.Reopen,
		"ordered":   order.MarkOrdered,
		"delivered": order.MarkDelivered,
		"revoke":    order.Revoke,
		"archive":   order.Archive,
	}

	for action, transition := range tests {
		t.Run(action, func(t *testing.T) {
			f := newFixture(t)
			o := newOrder(t)

			f.changeState.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeOrderStateCommand) bool {
				return cmd.Transition() == transition && cmd.Version() == nil
			})).Return(o, nil).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/"+action, "")

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestServer_ChangeState_ErrorMapping(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
	}{
		"stale version": {
			err:    errs.NewConcurrentUpdateError("order", "x", "a", "b"),
			status: http.StatusConflict,
		},
		"invalid state": {
			err:    errs.NewInvalidStateError("lock", "NEW", "OPEN"),
			status: http.StatusBadRequest,
		},
		"missing participants": {
			err:    errs.NewValueIsRequiredError("orderer"),
			status: http.StatusBadRequest,
		},
		"store failure": {
			err:    assert.AnError,
			status: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.changeState.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/lock", "")

			assert.Equal(t, tt.status, rec.Code)
			body := decode[servers.Error](t, rec)
			assert.Equal(t, tt.status, body.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Internal Server Error", body.Message)
			}
		})
	}
}

func TestServer_ChangeState_MalformedIfMatch(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/lock", "", "If-Match", `"v1"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.changeState.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_UpdateOrderInfo(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)

	f.updateInfo.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderInfoCommand) bool {
		info := cmd.Info()
		return info.Orderer == "Ada" &&
			info.Fetcher == "" &&
			info.MoneyCollectionType == order.CollectionPaypal &&
			info.MaxMeals != nil && *info.MaxMeals == 6
	})).Return(o, nil).Once()

	rec := f.do(http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/info",
		`{"orderer":"Ada","moneyCollectionType":"PAYPAL","maximumMealsCount":6}`)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_AddOrderPosition(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	p, err := o.AddPosition(kernel.NewUUID(), order.PositionData{Name: "Ada", Meal: "Pasta"}, order.DefaultActor, testNow)
	require.NoError(t, err)

	f.addPosition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AddOrderPositionCommand) bool {
		data := cmd.Data()
		return data.Name == "Ada" && data.Meal == "Pasta" &&
			data.Price != nil && data.Price.String() == "9.50" &&
			data.Paid == nil
	})).Return(commands.PositionResult{Order: o, Position: p}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/positions",
		`{"name":"Ada","meal":"Pasta","price":"9.5"}`)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, `"`+p.Version().String()+`"`, rec.Header().Get("ETag"))
	assert.NotEqual(t, `"`+o.Version().String()+`"`, rec.Header().Get("ETag"))
}

func TestServer_AddOrderPosition_RejectsOversizedInput(t *testing.T) {
	long := strings.Repeat("x", 256)
	for name, body := range map[string]string{
		"price beyond storage":  `{"name":"Ada","meal":"Pasta","price":"123456789012.99"}`,
		"tip beyond storage":    `{"name":"Ada","meal":"Pasta","tip":"100000000"}`,
		"name beyond 255 chars": `{"name":"` + long + `","meal":"Pasta"}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/positions", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			f.addPosition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestServer_UpdateOrderInfo_RejectsLongNames(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/info",
		`{"orderer":"`+strings.Repeat("x", 256)+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	f.updateInfo.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_AddOrderPosition_RejectsMalformedMoney(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/positions",
		`{"name":"Ada","meal":"Pasta","price":"nine"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.addPosition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_UpdateOrderPosition_UsesPositionVersion(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	p, err := o.AddPosition(kernel.NewUUID(), order.PositionData{Name: "Ada", Meal: "Pasta"}, order.DefaultActor, testNow)
	require.NoError(t, err)
	version := kernel.NewUUID()

	f.updatePosition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderPositionCommand) bool {
		return cmd.PositionID().IsEqual(p.ID()) &&
			cmd.Version() != nil && cmd.Version().IsEqual(version)
	})).Return(commands.PositionResult{Order: o, Position: p}, nil).Once()

	rec := f.do(http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/positions/"+p.ID().String(),
		`{"name":"Ada","meal":"Pasta"}`, "If-Match", version.String())

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `"`+p.Version().String()+`"`, rec.Header().Get("ETag"))
}

func TestServer_UpdateOrderPosition_ETagIsAcceptedAsIfMatch(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	p, err := o.AddPosition(kernel.NewUUID(), order.PositionData{Name: "Ada", Meal: "Pasta"}, order.DefaultActor, testNow)
	require.NoError(t, err)

	f.updatePosition.On("Handle", mock.Anything, mock.Anything).
		Return(commands.PositionResult{Order: o, Position: p}, nil).Once()
	f.updatePosition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderPositionCommand) bool {
		return cmd.Version() != nil && cmd.Version().IsEqual(p.Version())
	})).Return(commands.PositionResult{Order: o, Position: p}, nil).Once()

	target := "/api/v1/orders/" + o.ID().String() + "/positions/" + p.ID().String()
	first := f.do(http.MethodPut, target, `{"name":"Ada","meal":"Pasta"}`)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	second := f.do(http.MethodPut, target, `{"name":"Ada","meal":"Lasagne"}`, "If-Match", first.Header().Get("ETag"))

	assert.Equal(t, http.StatusOK, second.Code, second.Body.String())
	f.updatePosition.AssertExpectations(t)
}

func TestServer_DeleteOrderPosition(t *testing.T) {
	f := newFixture(t)
	o := newOrder(t)
	positionID := kernel.NewUUID()

	f.removePosition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RemoveOrderPositionCommand) bool {
		return cmd.OrderID().IsEqual(o.ID()) && cmd.PositionID().IsEqual(positionID)
	})).Return(commands.PositionResult{Order: o}, nil).Once()

	rec := f.do(http.MethodDelete, "/api/v1/orders/"+o.ID().String()+"/positions/"+positionID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("ETag"))
}

func TestServer_DeleteOrder(t *testing.T) {
	f := newFixture(t)
	id := kernel.NewUUID()

	f.deleteOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DeleteOrderCommand) bool {
		return cmd.OrderID().IsEqual(id) && !cmd.IsForced()
	})).Return(nil).Once()

	rec := f.do(http.MethodDelete, "/api/v1/orders/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServer_ListOrderableRestaurants(t *testing.T) {
	f := newFixture(t)
	restaurant := queries.GetOrderableRestaurantsQueryResponse{ID: kernel.NewUUID(), Name: "Pizzeria"}

	f.restaurants.On("Handle", mock.Anything, mock.Anything).
		Return([]queries.GetOrderableRestaurantsQueryResponse{restaurant}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/restaurants/orderable?date=2024-05-02", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []servers.Restaurant{{Id: restaurant.ID.Google(), Name: "Pizzeria"}}, decode[[]servers.Restaurant](t, rec))
}

func TestServer_ListOrderableRestaurants_RequiresDate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/restaurants/orderable", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/menus", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[servers.Error](t, rec).Code)
}

func TestServer_SwaggerDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ListOrderableRestaurants"`)
}

func TestNewServer_RequiresAllHandlers(t *testing.T) {
	_, err := NewServer(Handlers{}, nil)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
