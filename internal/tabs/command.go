package tabs

import (
	"context"
	"fmt"
	"io"
)

// Command enumerates the generic UI actions a page can dispatch. The many
// per-entity callbacks collapse into this one enum keyed by Kind.
type Command int

const (
	CmdAdd Command = iota
	CmdEdit
	CmdDelete
	CmdSave
	CmdSaveAndNew
	CmdSaveAndClose
	CmdRefresh
	CmdExportExcel
	CmdExportPDF
	CmdImportExcel
)

func (c Command) String() string {
	switch c {
	case CmdAdd:
		return "add"
	case CmdEdit:
		return "edit"
	case CmdDelete:
		return "delete"
	case CmdSave:
		return "save"
	case CmdSaveAndNew:
		return "save-and-new"
	case CmdSaveAndClose:
		return "save-and-close"
	case CmdRefresh:
		return "refresh"
	case CmdExportExcel:
		return "export-excel"
	case CmdExportPDF:
		return "export-pdf"
	case CmdImportExcel:
		return "import-excel"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ParseCommand is the inverse of String.
func ParseCommand(raw string) (Command, bool) {
	for cmd := CmdAdd; cmd <= CmdImportExcel; cmd++ {
		if cmd.String() == raw {
			return cmd, true
		}
	}
	return 0, false
}

// Dispatch routes one command to the matching controller operation. The
// payload depends on the command: a Record for CmdEdit, an id for CmdDelete,
// an io.Reader for CmdImportExcel, nil otherwise.
func (c *Controller) Dispatch(ctx context.Context, cmd Command, kind Kind, payload any) error {
	switch cmd {
	case CmdAdd:
		return c.Add(kind)
	case CmdEdit:
		record, ok := payload.(Record)
		if !ok {
			return fmt.Errorf("tabs: %s expects a Record payload", cmd)
		}
		return c.EditRecord(kind, record)
	case CmdDelete:
		return c.DeleteRecord(ctx, kind, payload)
	case CmdSave:
		return c.Save(ctx)
	case CmdSaveAndNew:
		return c.SaveAndNew(ctx)
	case CmdSaveAndClose:
		return c.SaveAndClose(ctx)
	case CmdRefresh:
		return c.Refresh(ctx)
	case CmdExportExcel:
		return c.ExportExcel(ctx, kind)
	case CmdExportPDF:
		return c.ExportPDF(ctx, kind)
	case CmdImportExcel:
		file, ok := payload.(io.Reader)
		if !ok {
			return fmt.Errorf("tabs: %s expects an io.Reader payload", cmd)
		}
		return c.ImportExcel(ctx, kind, file)
	default:
		return fmt.Errorf("tabs: unsupported %s", cmd)
	}
}
