package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
)

const (
	pageSizeParam   = "page_size"
	pageTokenParam  = "page_token"
	viewParam       = "view"
	filterParam     = "filter"
	updateMaskParam = "update_mask"
)

func getViewFromRequest(req *http.Request) (domain.View, error) {
	raw := req.URL.Query().Get(viewParam)

	view, ok := domain.ParseView(raw)
	if !ok {
		return domain.ViewUnspecified, fmt.Errorf("%w: invalid view %q", controller.ErrInvalidArgument, raw)
	}

	return view, nil
}

func getListParamsFromRequest(req *http.Request) (domain.ListParams, error) {
	var params domain.ListParams

	query := req.URL.Query()

	if raw := query.Get(pageSizeParam); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("%w: invalid %s %q", controller.ErrInvalidArgument, pageSizeParam, raw)
		}
		params.PageSize = pageSize
	}

	view, err := getViewFromRequest(req)
	if err != nil {
		return params, err
	}

	params.View = view
	params.PageToken = query.Get(pageTokenParam)
	params.Filter = query.Get(filterParam)

	return params, nil
}
