package analysis

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go_tactics/internal/adapters"
	"go_tactics/internal/bootstrap"
	"go_tactics/internal/domain/analysis"
	tacticserrors "go_tactics/internal/errors"
	"go_tactics/internal/httpresponse"
	repo "go_tactics/internal/repository"
	"go_tactics/internal/tactics"
	analysisuc "go_tactics/internal/usecase/analysis"
	"go_tactics/internal/utils"
)

type AnalysisHandler struct {
	cfg bootstrap.Config
	log *zap.SugaredLogger
	uc  *analysisuc.AnalysisUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewAnalysisHandler(cfg bootstrap.Config, log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo, redisAdapter *adapters.AdapterRedis) *AnalysisHandler {
	store := repo.NewAnalysisRepository(cfg, log, redisAdapter.GetClient(), mongoAdapter.Database)
	classifier := tactics.NewClassifier(log, nil)
	return &AnalysisHandler{
		cfg: cfg,
		log: log,
		uc:  analysisuc.NewAnalysisUseCase(store, classifier, log),
	}
}

func (a *AnalysisHandler) HandleClassifyMove(w http.ResponseWriter, r *http.Request) {
	var req analysis.ClassifyRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := a.uc.Classify(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.log.Infof("move %s classified, bad=%v cached=%v", req.Coordinates, resp.Bad, resp.Cached)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (a *AnalysisHandler) HandleSelfAtariCousin(w http.ResponseWriter, r *http.Request) {
	var req analysis.ClassifyRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := a.uc.Cousin(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (a *AnalysisHandler) HandleGetAnalysisById(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("id")
	if requestID == "" {
		a.log.Error("missing id query parameter")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "missing id query parameter")
		return
	}

	rec, err := a.uc.GetAnalysisById(r.Context(), requestID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (a *AnalysisHandler) HandleGetArchive(w http.ResponseWriter, r *http.Request) {
	pageNum := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			a.log.Error("bad page query parameter:", raw)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "bad page query parameter")
			return
		}
		pageNum = parsed
	}

	archive, err := a.uc.GetArchive(r.Context(), pageNum)
	if err != nil {
		a.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, archive)
}

// HandleAnalysisStream upgrades to a websocket and classifies a stream of
// moves, one verdict per item. A malformed item ends the connection; a
// failed classification only fails that item.
func (a *AnalysisHandler) HandleAnalysisStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Error("upgrade error:", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		var item analysis.BatchItem
		if err = conn.ReadJSON(&item); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.log.Error("read error:", err)
			}
			return
		}

		verdict := a.uc.ClassifyBatchItem(ctx, item)
		if err = conn.WriteJSON(verdict); err != nil {
			a.log.Error("write error:", err)
			return
		}
	}
}

func (a *AnalysisHandler) writeError(w http.ResponseWriter, err error) {
	a.log.Error(err)
	switch {
	case errors.Is(err, tacticserrors.ErrAnalysisNotFound):
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tacticserrors.ErrBadDiagram),
		errors.Is(err, tacticserrors.ErrBadCoordinates),
		errors.Is(err, tacticserrors.ErrBadColor),
		errors.Is(err, tacticserrors.ErrOccupiedPoint),
		errors.Is(err, tacticserrors.ErrNotSelfAtari):
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
	default:
		httpresponse.WriteInternalErrorResponse(w)
	}
}
