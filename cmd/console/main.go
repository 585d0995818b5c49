package main

import (
	"context"
	"fmt"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/model"

	"github.com/alecthomas/kong"
)

type Globals struct {
	Server  string        `help:"Scheduler base URL." default:"http://localhost:8080" env:"ROOMBOOK_SERVER"`
	Code    string        `help:"Access code of the room this console is mounted in." required:"" env:"ROOMBOOK_ROOM_CODE"`
	Timeout time.Duration `help:"Deadline for the whole command." default:"15s"`
}

type LockCmd struct{}

func (c *LockCmd) Run(ctx context.Context, g *Globals) error {
	room, err := client.NewRoomClient(g.Server).Lock(ctx, g.Code)
	if err != nil {
		return err
	}
	printRoom(room)
	return nil
}

type UnlockCmd struct{}

func (c *UnlockCmd) Run(ctx context.Context, g *Globals) error {
	room, err := client.NewRoomClient(g.Server).Unlock(ctx, g.Code)
	if err != nil {
		return err
	}
	printRoom(room)
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx context.Context, g *Globals) error {
	status, err := client.NewRoomClient(g.Server).CheckLock(ctx, g.Code)
	if err != nil {
		return err
	}
	if status.Room != nil {
		printRoom(status.Room)
		return nil
	}
	fmt.Printf("locked: %t\n", status.Locked)
	return nil
}

func printRoom(room *model.Room) {
	fmt.Printf("room: %s (%s)\nlocked: %t\n", room.Name, room.ID, room.Locked)
}

var cli struct {
	Globals

	Lock   LockCmd   `cmd:"" help:"Mark the room as occupied."`
	Unlock UnlockCmd `cmd:"" help:"Release the room."`
	Status StatusCmd `cmd:"" help:"Show whether the room is locked."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("console"),
		kong.Description("Pair a physical room console with the scheduler."),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals))
}
