package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"procurechain_backend/internal/config"
	"procurechain_backend/internal/documents"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DocumentService interface {
	Upload(ctx context.Context, actorID, procurementID string, fileHeader *multipart.FileHeader) (*models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	ByProcurement(ctx context.Context, procurementID string) ([]models.Document, error)
	Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error
	Parse(ctx context.Context, actorID, id string) (*models.Document, error)
}

type DocumentServiceImpl struct {
	documentRepo    repositories.DocumentRepository
	procurementRepo repositories.ProcurementRepository
	aiService       AIService
	auditService    AuditService
	uploadDir       string
	maxSize         int64
	allowedExts     map[string]bool
}

func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	procurementRepo repositories.ProcurementRepository,
	aiService AIService,
	auditService AuditService,
	cfg *config.Config,
) DocumentService {
	allowed := make(map[string]bool, len(cfg.Upload.AllowedExtensions))
	for _, ext := range cfg.Upload.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &DocumentServiceImpl{
		documentRepo:    documentRepo,
		procurementRepo: procurementRepo,
		aiService:       aiService,
		auditService:    auditService,
		uploadDir:       cfg.Upload.Dir,
		maxSize:         cfg.Upload.MaxSize,
		allowedExts:     allowed,
	}
}

// Upload проверяет расширение и размер, кладет файл на диск под
// uuid-префиксом и заводит запись
func (s *DocumentServiceImpl) Upload(ctx context.Context, actorID, procurementID string, fileHeader *multipart.FileHeader) (*models.Document, error) {
	if _, err := s.procurementRepo.FindByID(procurementID); err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !s.allowedExts[ext] {
		return nil, apperrors.ErrInvalidFileType
	}
	if fileHeader.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	dir := filepath.Join(s.uploadDir, "procurements", procurementID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.InternalError(err)
	}

	storedPath := filepath.Join(dir, uuid.NewString()+"_"+filepath.Base(fileHeader.Filename))
	if err := s.saveFile(fileHeader, storedPath); err != nil {
		return nil, apperrors.InternalError(err)
	}

	document := &models.Document{
		ProcurementID: procurementID,
		UploadedBy:    actorID,
		OriginalName:  fileHeader.Filename,
		StoredPath:    storedPath,
		MimeType:      fileHeader.Header.Get("Content-Type"),
		SizeBytes:     fileHeader.Size,
		Status:        models.DocumentUploaded,
	}
	if err := s.documentRepo.Create(document); err != nil {
		// Запись не создана - файл на диске не нужен
		if rmErr := os.Remove(storedPath); rmErr != nil {
			logger.CtxWarn(ctx, "orphan upload cleanup failed", "path", storedPath, "error", rmErr)
		}
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "document.uploaded",
		UserID:       actorID,
		ResourceType: "document",
		ResourceID:   document.ID,
		ResourceName: document.OriginalName,
		Metadata:     map[string]interface{}{"procurement_id": procurementID, "size_bytes": fileHeader.Size},
	})
	return document, nil
}

func (s *DocumentServiceImpl) saveFile(fileHeader *multipart.FileHeader, dest string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func (s *DocumentServiceImpl) Get(ctx context.Context, id string) (*models.Document, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return document, nil
}

func (s *DocumentServiceImpl) ByProcurement(ctx context.Context, procurementID string) ([]models.Document, error) {
	docs, err := s.documentRepo.FindByProcurement(procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

// Delete разрешен загрузившему или админу; файл с диска убирается
// best-effort после удаления записи
func (s *DocumentServiceImpl) Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error {
	document, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if document.UploadedBy != actorID && actorRole != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.documentRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	if err := os.Remove(document.StoredPath); err != nil && !os.IsNotExist(err) {
		logger.CtxWarn(ctx, "stored file removal failed", "path", document.StoredPath, "error", err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "document.deleted",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "document",
		ResourceID:   id,
		ResourceName: document.OriginalName,
	})
	return nil
}

// Parse извлекает текст и прогоняет его через AI-парсер. Результат
// сохраняется в parsed_data, статус отражает исход.
func (s *DocumentServiceImpl) Parse(ctx context.Context, actorID, id string) (*models.Document, error) {
	document, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := documents.ExtractText(ctx, document.StoredPath)
	if err != nil {
		if stErr := s.documentRepo.UpdateStatus(id, models.DocumentFailed); stErr != nil {
			logger.CtxWarn(ctx, "document status update failed", "document_id", id, "error", stErr)
		}
		return nil, apperrors.InternalError(err)
	}

	parsed, err := s.aiService.ParseDocument(ctx, text, document.OriginalName)
	if err != nil {
		if stErr := s.documentRepo.UpdateStatus(id, models.DocumentFailed); stErr != nil {
			logger.CtxWarn(ctx, "document status update failed", "document_id", id, "error", stErr)
		}
		return nil, err
	}

	data := datatypes.JSON(mustJSON(parsed))
	if err := s.documentRepo.SetParsedData(id, models.DocumentParsed, data); err != nil {
		return nil, apperrors.InternalError(err)
	}
	document.Status = models.DocumentParsed
	document.ParsedData = data

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAI,
		Action:       "document.parsed",
		UserID:       actorID,
		ResourceType: "document",
		ResourceID:   id,
		ResourceName: document.OriginalName,
	})
	return document, nil
}
