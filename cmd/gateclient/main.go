package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/order-target-gate/api/clients"
	"github.com/ruteri/order-target-gate/interfaces"
)

var serverAddrFlag = &cli.StringFlag{
	Name:  "server-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "base URL of the gate server",
}

var callerFlag = &cli.StringFlag{
	Name:  "caller",
	Usage: "caller address for mutating operations. 0x-prefixed hex",
}

var orderFlag = &cli.StringFlag{
	Name:     "order",
	Required: true,
	Usage:    "order identifier. 0x-prefixed 32-byte hex",
}

var targetFlag = &cli.StringFlag{
	Name:  "target",
	Usage: "target address to encode as extra data. 0x-prefixed hex",
}

func main() {
	app := &cli.App{
		Name:  "gate-client",
		Usage: "Interact with the order target authorization gate",
		Flags: []cli.Flag{serverAddrFlag, callerFlag},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "register the intended fulfiller for an order",
				Flags: []cli.Flag{orderFlag, targetFlag},
				Action: func(cCtx *cli.Context) error {
					client, err := newClient(cCtx)
					if err != nil {
						return err
					}
					order, err := parseOrder(cCtx)
					if err != nil {
						return err
					}
					extraData, err := parseTargetWord(cCtx)
					if err != nil {
						return err
					}
					if err := client.RegisterTarget(order, extraData); err != nil {
						return err
					}
					fmt.Println("targeted")
					return nil
				},
			},
			{
				Name:  "fulfill",
				Usage: "attempt completion of an order as the caller",
				Flags: []cli.Flag{orderFlag, targetFlag},
				Action: func(cCtx *cli.Context) error {
					client, err := newClient(cCtx)
					if err != nil {
						return err
					}
					order, err := parseOrder(cCtx)
					if err != nil {
						return err
					}
					// Optional fallback data when no registration exists.
					var extraData []byte
					if cCtx.IsSet(targetFlag.Name) {
						extraData, err = parseTargetWord(cCtx)
						if err != nil {
							return err
						}
					}
					if err := client.AuthorizeCompletion(order, extraData); err != nil {
						return err
					}
					fmt.Println("fulfilled")
					return nil
				},
			},
			{
				Name:  "cancel",
				Usage: "cancel an unfulfilled registration as the caller",
				Flags: []cli.Flag{orderFlag},
				Action: func(cCtx *cli.Context) error {
					client, err := newClient(cCtx)
					if err != nil {
						return err
					}
					order, err := parseOrder(cCtx)
					if err != nil {
						return err
					}
					if err := client.Cancel(order); err != nil {
						return err
					}
					fmt.Println("cancelled")
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print the target and fulfillment flag for an order",
				Flags: []cli.Flag{orderFlag},
				Action: func(cCtx *cli.Context) error {
					client, err := newClient(cCtx)
					if err != nil {
						return err
					}
					order, err := parseOrder(cCtx)
					if err != nil {
						return err
					}
					target, err := client.Target(order)
					if err != nil {
						return err
					}
					fulfilled, err := client.Fulfilled(order)
					if err != nil {
						return err
					}
					fmt.Printf("target: %s\nfulfilled: %v\n", target.Hex(), fulfilled)
					return nil
				},
			},
			{
				Name:  "metadata",
				Usage: "print the gate descriptor",
				Action: func(cCtx *cli.Context) error {
					client, err := newClient(cCtx)
					if err != nil {
						return err
					}
					md, err := client.Metadata()
					if err != nil {
						return err
					}
					fmt.Printf("name: %s\nschema: %s\ninterface: %s\n", md.Name, md.Schema, md.InterfaceID)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) (*clients.GateClient, error) {
	client := &clients.GateClient{ServerAddr: cCtx.String(serverAddrFlag.Name)}
	if callerHex := cCtx.String(callerFlag.Name); callerHex != "" {
		if !common.IsHexAddress(callerHex) {
			return nil, fmt.Errorf("invalid caller address: %s", callerHex)
		}
		client.Caller = common.HexToAddress(callerHex)
	}
	return client, nil
}

func parseOrder(cCtx *cli.Context) (interfaces.OrderID, error) {
	orderHex := cCtx.String(orderFlag.Name)
	if len(orderHex) != 2+2*common.HashLength || orderHex[:2] != "0x" {
		return interfaces.OrderID{}, fmt.Errorf("invalid order id: %s", orderHex)
	}
	return common.HexToHash(orderHex), nil
}

func parseTargetWord(cCtx *cli.Context) ([]byte, error) {
	targetHex := cCtx.String(targetFlag.Name)
	if !common.IsHexAddress(targetHex) {
		return nil, fmt.Errorf("invalid target address: %s", targetHex)
	}
	return interfaces.EncodeTargetWord(common.HexToAddress(targetHex)), nil
}
